// Package cli implements the tldrx command line.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/config"
	"github.com/tldrx/cmdref/internal/logging"
	"github.com/tldrx/cmdref/internal/ui"
)

var (
	// Version is the semantic version (set via -ldflags)
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags)
	Commit = "unknown"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd builds the tldrx command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Shell command catalog tooling",
		Long: ui.TitleStyle.Render("tldrx") + ui.SubtitleStyle.Render(" - shell command catalog tooling") + `

tldrx splits a monolithic command catalog into per-category chunk files
with a combined index, and searches the catalog from the terminal.

Configuration:
  1. --config flag (explicit path)
  2. ./tldrx.yaml
  3. TLDRX_* environment variables (e.g. TLDRX_OUTPUT_FORMAT=json)

` + ui.SubtitleStyle.Render("Examples:") + `
  tldrx split                          Split src/data/commands.js into src/data/chunks
  tldrx split -o s3://bucket/chunks    Write the chunks to S3
  tldrx plan -i commands.yaml          Show the chunk layout without writing
  tldrx validate -i commands.json      Report every invalid record
  tldrx search "list files"            Search the catalog`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is ./tldrx.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newSplitCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newScreenshotCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Error("Error: ")+err.Error())
		return err
	}
	return nil
}

func versionString() string {
	if Commit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// init loads configuration and builds the logger before any subcommand runs
func (a *app) init(cmd *cobra.Command) error {
	cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: level})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if path != "" {
		logger.Debug("Using config", "path", path)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
