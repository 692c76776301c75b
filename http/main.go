package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"

	"github.com/YurkoWasHere/sodola-exporter/common"
	"github.com/YurkoWasHere/sodola-exporter/metrics"
	"github.com/YurkoWasHere/sodola-exporter/scraping"
	"github.com/YurkoWasHere/sodola-exporter/util"
)

var selfRegistry *prometheus.Registry
var scrapeDurationMetric *prometheus.GaugeVec
var scrapeSuccessMetric *prometheus.GaugeVec

// StartServer - Start HTTP server in the background.
func StartServer(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor) {
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	// Configure
	server := &http.Server{
		Addr:    common.Config.HTTPEndpoint,
		Handler: newServeMux(),
	}

	// Run
	var shutdownContextCancel context.CancelFunc = nil
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
		}
		// Cancel shutdown timer
		if shutdownContextCancel != nil {
			shutdownContextCancel()
		}
		log.Info("HTTP server stopped")
		waitGroup.Done()
	}()

	// Shutdown
	go func() {
		<-shutdownChannel
		var shutdownContext context.Context
		shutdownContext, shutdownContextCancel = context.WithTimeout(context.Background(), 5*time.Second)
		server.Shutdown(shutdownContext)
	}()

	log.Infof("HTTP server started: %v", common.Config.HTTPEndpoint)
}

func newServeMux() *http.ServeMux {
	setupSelfMetrics()
	mainServeMux := http.NewServeMux()
	mainServeMux.HandleFunc("/", handleOtherRequest)
	mainServeMux.HandleFunc("/sodola", handleSodolaRequest)
	mainServeMux.HandleFunc("/health", handleHealthRequest)
	mainServeMux.Handle("/metrics", promhttp.HandlerFor(selfRegistry, promhttp.HandlerOpts{}))
	return mainServeMux
}

func setupSelfMetrics() {
	selfRegistry = prometheus.NewRegistry()
	selfRegistry.MustRegister(collectors.NewGoCollector())
	util.NewExporterMetric(selfRegistry, common.PrometheusNamespace, common.AppVersion)
	scrapeDurationMetric = util.NewGaugeVec(selfRegistry, common.PrometheusNamespace, "exporter", "last_scrape_duration_seconds",
		"Duration of the last scrape of a target.", []string{"target"})
	scrapeSuccessMetric = util.NewGaugeVec(selfRegistry, common.PrometheusNamespace, "exporter", "last_scrape_success",
		"Whether the last scrape of a target succeeded.", []string{"target"})
}

func handleOtherRequest(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path == "/" {
		fmt.Fprintf(response, "%s version %s by %s.\n", common.AppName, common.AppVersion, common.AppAuthor)
		fmt.Fprintf(response, "\nPaths:\n")
		fmt.Fprintf(response, "- Device metrics: /sodola?target=<host>&username=<u>&password=<p>\n")
		fmt.Fprintf(response, "- Health: /health\n")
		fmt.Fprintf(response, "- Exporter metrics: /metrics\n")
	} else {
		http.Error(response, "404 - Page not found.\n", 404)
	}
}

// handleSodolaRequest - Scrape one target per request, SNMP-exporter style.
// Concurrent requests are independent: each scrape owns its own session and
// deadline, so one unreachable device cannot stall scrapes of others.
func handleSodolaRequest(response http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	target := query.Get("target")
	log.WithFields(log.Fields{
		"endpoint": "sodola",
		"client":   request.RemoteAddr,
		"target":   target,
	}).Trace("Request")

	if target == "" {
		http.Error(response, "400 - Missing required 'target' parameter.\n", 400)
		return
	}
	credential := common.CredentialForTarget(target, query.Get("username"), query.Get("password"))

	ctx, cancel := context.WithTimeout(request.Context(), common.ScrapeTimeout())
	defer cancel()

	result, err := scraping.Scrape(ctx, target, credential)
	scrapeDurationMetric.WithLabelValues(target).Set(result.Duration.Seconds())
	if err != nil {
		scrapeSuccessMetric.WithLabelValues(target).Set(0)
		log.WithError(err).WithFields(log.Fields{
			"target": target,
		}).Warn("Scrape failed")
		http.Error(response, fmt.Sprintf("500 - Scrape failed: %v\n", err), 500)
		return
	}
	scrapeSuccessMetric.WithLabelValues(target).Set(1)

	response.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	fmt.Fprint(response, metrics.Render(result))
	fmt.Fprint(response, metrics.RenderScrapeMeta(result.Duration, true))
}

func handleHealthRequest(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Content-Type", "application/json")
	json.NewEncoder(response).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   common.AppName,
	})
}
