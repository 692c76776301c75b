package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/YurkoWasHere/sodola-exporter/common"
)

var debug = false

var rootCmd = &cobra.Command{
	Use:           "sodola-exporter",
	Short:         "Prometheus exporter for Sodola switch web management interfaces",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(log.TraceLevel)
			log.Info("Debug mode enabled")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", debug, "Show debug messages.")
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	log.Infof("Starting %v version %v by %v", common.AppName, common.AppVersion, common.AppAuthor)
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Exiting with failure")
		os.Exit(1)
	}
}
