// Package commands implements the gapscan command line tool.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/logging"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "gapscan",
	Short:         "Analyze missing values in time-indexed tables",
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewOperationCommand())
	rootCmd.AddCommand(NewListOperationsCommand())
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig falls back to defaults when no file is found
func loadConfig() *config.Config {
	return config.LoadOrDefault(configPath)
}

// cliLogger writes to stderr so stdout stays machine readable
func cliLogger(cmd *cobra.Command) *logging.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}
	return logging.NewWithWriter(out, level).Component("cli")
}
