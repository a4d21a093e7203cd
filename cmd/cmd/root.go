// Package cmd holds the escmon CLI commands.
package cmd

import (
	"fmt"
	"os"

	"escmon/internal/config"
	"escmon/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "escmon",
	Short: "escmon monitors news sources and scores geopolitical escalation",
	Long: `escmon ingests a fixed set of RSS/Atom sources, filters the items for
recency and relevance, and runs a five-dimension escalation assessment over
the combined digest. Each successful run produces one dated report.`,
	SilenceUsage: true,
}

// Execute runs the CLI. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./escmon.yaml)")
}

// loadConfig loads configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging.Level)
	return cfg, nil
}
