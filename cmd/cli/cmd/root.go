package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdump-analysis/pkg/telemetry"
	"github.com/tdump-analysis/pkg/utils"
)

var (
	// Global flags
	verbose bool
	logger  utils.Logger

	// Telemetry shutdown hook
	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tdump-analysis",
	Short: "A thread-dump saturation analysis tool",
	Long: `tdump-analysis is a CLI tool for diagnosing Java thread-pool saturation.

It takes a zip archive of thread-dump snapshots captured over time and a
thread-pool name prefix, clusters the pool's threads by stack-trace
signature across snapshots, and ranks the clusters so the stacks dominating
the pool's blocked time stand out. Known framework noise can be filtered
out via a YAML config so application-level bottlenecks surface first.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		shutdown, err := telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("Failed to initialize telemetry: %v", err)
			return nil
		}
		telemetryShutdown = shutdown
		if telemetry.Enabled() {
			logger.Debug("Telemetry enabled")
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetryShutdown(ctx); err != nil {
				logger.Warn("Failed to flush telemetry: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Analyze the Tomcat worker pool across a batch of dumps
  ` + binName + ` analyze -z threads.zip -p "http-nio-8080-exec"

  # Prompt interactively for missing inputs
  ` + binName + ` analyze

  # Apply a noise-filter config and cap the rendered groups
  ` + binName + ` analyze -z dumps.zip -p "ForkJoinPool.commonPool" -c filters.yaml -n 10`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, os.Stdout)
	}
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
