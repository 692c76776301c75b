package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/YurkoWasHere/sodola-exporter/common"
	"github.com/YurkoWasHere/sodola-exporter/metrics"
	"github.com/YurkoWasHere/sodola-exporter/scraping"
)

var scrapeHost = ""
var scrapeUsername = ""
var scrapePassword = ""
var scrapeOutput = ""
var scrapeIntervalSeconds = 0

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape one device and print Prometheus metrics",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeHost, "host", common.EnvOrDefault(common.EnvHost, ""), "Device URL, e.g. http://192.168.40.6.")
	scrapeCmd.Flags().StringVar(&scrapeUsername, "username", common.EnvOrDefault(common.EnvUsername, common.DefaultUsername), "Device username.")
	scrapeCmd.Flags().StringVar(&scrapePassword, "password", common.EnvOrDefault(common.EnvPassword, common.DefaultPassword), "Device password.")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Output file (default stdout).")
	scrapeCmd.Flags().IntVar(&scrapeIntervalSeconds, "interval", 0, "Continuous scraping interval in seconds (0 for one-shot).")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if scrapeHost == "" {
		return fmt.Errorf("no device host given (--host or %v)", common.EnvHost)
	}
	credential := common.Credential{Username: scrapeUsername, Password: scrapePassword}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scrapeIntervalSeconds > 0 {
		log.Infof("Starting continuous scraping every %v seconds", scrapeIntervalSeconds)
		scraping.RunInterval(ctx, scrapeHost, credential, time.Duration(scrapeIntervalSeconds)*time.Second,
			func(result *metrics.ScrapeResult, err error) {
				if err != nil {
					log.WithError(err).Error("Scrape failed, retrying at next tick")
					return
				}
				if err := writeOutput(metrics.Render(result)); err != nil {
					log.WithError(err).Error("Failed to write output")
				}
			})
		return nil
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, common.ScrapeTimeout())
	defer cancel()
	result, err := scraping.Scrape(scrapeCtx, scrapeHost, credential)
	if err != nil {
		return err
	}
	return writeOutput(metrics.Render(result))
}

func writeOutput(text string) error {
	if scrapeOutput == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(scrapeOutput, []byte(text), 0644); err != nil {
		return err
	}
	log.Infof("Metrics written to %v", scrapeOutput)
	return nil
}
