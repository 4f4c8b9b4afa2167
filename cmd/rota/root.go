package main

import (
	"github.com/arnavshah/student-rota/pkg/config"
	"github.com/arnavshah/student-rota/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "rota",
	Short:        "Student volunteer shift rota tools",
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads configuration and a logger shared by every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
