// =============================================================================
// Dashboard Tools - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every tool is a
// subcommand attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (dashtools)
//   ├── checkDupsCmd  (dashtools check-dups)
//   ├── managersCmd   (dashtools managers)
//   ├── fetchFontCmd  (dashtools fetch-font)
//   ├── exportCmd     (dashtools export stores|employees)
//   ├── targetsCmd    (dashtools targets)
//   ├── validateCmd   (dashtools validate)
//   └── versionCmd    (dashtools version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config)
//   2. Builds the logger, tagged with a run id
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/config"
	"github.com/orangedata/dashtools/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded for the current run.
var appConfig *config.Config

// logger is the run logger. It discards output until the root command has
// initialized it.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dashtools",
	Short: "Dashboard Tools - maintenance utilities for the retail dashboard data",
	Long: `Dashboard Tools bundles the maintenance utilities of the retail dashboard.
They operate on the two dashboard documents, employees_data.json and
management_data.json.

Example Usage:
  dashtools check-dups                      # Look for duplicated sales records
  dashtools check-dups --resolve-ids        # Match through the employee name index
  dashtools managers                        # Write the list of area managers
  dashtools fetch-font                      # Embed the Arabic font for PDF export
  dashtools export stores --start 2024-01-01 --end 2024-01-31
  dashtools targets --month 2026-04         # Prepare next month's targets
  dashtools validate                        # Check both documents`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		base, err := logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}

		appConfig = cfg
		logger = logging.WithRun(base, cmd.Name())
		logger.Debug("configuration loaded", zap.String("config", cfgFile))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Sync fails on console file descriptors; nothing to report.
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
// An interrupt cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Stderr)
	stop()

	if code != 0 {
		os.Exit(code)
	}
}

// execute runs the command tree and returns the process exit status.
// A failure is printed as "Error: <message>" on stderr.
func execute(ctx context.Context, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)

	// PersistentPostRun is skipped when a command fails.
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// firstNonEmpty returns the flag value when set, else the configured value.
func firstNonEmpty(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
