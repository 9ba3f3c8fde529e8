// Package awardgraph implements the awardgraph command-line interface.
package awardgraph

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/awardgraph/awardgraph/pkg/config"
	"github.com/awardgraph/awardgraph/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "awardgraph",
	Short: "Build and explore a knowledge graph of grant awards",
	Long: `awardgraph turns a tabular grant-award export into a knowledge graph
of awards, researchers, organizations, places, funding programs and
technology areas, and lets you query, visualize and serve it.`,
	SilenceUsage: true,
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration and installs the configured logger as
// the process default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Log.Level))
	slog.SetDefault(log)
	return cfg, log, nil
}
