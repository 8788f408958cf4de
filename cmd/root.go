package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aouyang1/signage/config"
	"github.com/aouyang1/signage/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "signage",
	Short:         "Signage - queue and slide management for digital signage",
	Long:          `Signage serves the queue and slide API for digital signage displays and talks to it from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config and sets up logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}
