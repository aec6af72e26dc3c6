package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iwvelando/bpo-report/internal/app"
	"github.com/iwvelando/bpo-report/internal/config"
	"github.com/iwvelando/bpo-report/internal/logging"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configLocation string
	logLevel       string
	outputFormat   string

	conf   *config.Configuration
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bpo-report",
	Short: "BPO savings report generator",
	Long: `bpo-report estimates monthly savings for a contact-center operation by
applying a fixed table of named savings multipliers to its monthly cost.

It can print a one-off report, serve the report API over HTTP, and archive
generated reports to memory, SQLite or PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.LoadConfiguration(configLocation)
		if err != nil {
			return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
		}

		logger, err = logging.New(conf.Logging, logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		warnings, err := conf.ValidateConfiguration()
		for _, warning := range warnings {
			logger.Warn("Configuration warning: "+warning,
				zap.String("op", "main"),
			)
		}
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", "", "output format override: pretty, json, csv, yaml")

	rootCmd.AddCommand(serveCmd, reportCmd, businessCaseCmd, theoremsCmd, reportsCmd, demoCmd, versionCmd)
}

// resolveOutputFormat applies the CLI override over the configured format.
func resolveOutputFormat() (string, error) {
	format := conf.Output.Format
	if outputFormat != "" {
		format = outputFormat
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// newApp builds the application from the loaded configuration.
func newApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, logger, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
