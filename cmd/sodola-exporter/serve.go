package main

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/YurkoWasHere/sodola-exporter/common"
	exporterhttp "github.com/YurkoWasHere/sodola-exporter/http"
	"github.com/YurkoWasHere/sodola-exporter/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the multi-target HTTP scrape service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&common.Config.HTTPEndpoint, "listen", common.Config.HTTPEndpoint, "Endpoint to listen on.")
	serveCmd.Flags().StringVar(&common.Config.CredentialsPath, "credentials", common.Config.CredentialsPath, "Optional JSON file with per-target credentials.")
	serveCmd.Flags().Float64Var(&common.Config.ScrapeTimeoutSeconds, "scrape-timeout", common.Config.ScrapeTimeoutSeconds, "Per-request scrape deadline in seconds.")
	serveCmd.Flags().Float64Var(&common.Config.PageTimeoutSeconds, "page-timeout", common.Config.PageTimeoutSeconds, "Per-page fetch deadline in seconds.")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := common.LoadCredentials(); err != nil {
		return err
	}

	shutdown := util.NewSignalShutdownDistributor()

	var waitGroup sync.WaitGroup
	exporterhttp.StartServer(&waitGroup, shutdown)
	waitGroup.Wait()

	return nil
}
