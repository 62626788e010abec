// Package main is the entry point of the tradedesk binary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradedesk/internal/config"
	"tradedesk/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tradedesk",
	Short:         "Trade document organizer and product catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the CLI and returns the process exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newTemplateCmd(),
		newCatalogCmd(),
		newVersionCmd(),
	)
}

// loadConfig reads and validates the configuration and applies its logging settings.
func loadConfig() (*config.AppConfig, *time.Location, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	logging.Configure(loc, cfg.Log.Format)
	if err := logging.SetLogLevel(cfg.Log.Level); err != nil {
		return nil, nil, err
	}
	return cfg, loc, nil
}
