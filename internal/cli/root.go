// Package cli implements the panemux command-line interface.
//
// This package provides commands for resolving KDL workspace layout
// definitions, inspecting and previewing the resolved pane trees,
// exporting them as JSON or Graphviz output, and serving them over a
// local dev server. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - resolve: Parse a layout file and print a summary or its JSON form
//   - inspect: Draw a resolved tab as nested terminal boxes
//   - export: Generate DOT, SVG, or PNG output
//   - preview: Interactive TUI cycling through tabs
//   - serve: Local HTTP server exposing resolved layouts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags
// at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the panemux CLI and returns an error if any command
// fails.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree.
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "panemux",
		Short:        "Panemux resolves workspace layout definitions into pane trees",
		Long:         `Panemux is a CLI tool for compiling KDL workspace layout definitions (tabs, tiled and floating panes, templates, swap layouts) into fully resolved pane trees, and for inspecting, exporting, and serving the result.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("panemux %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/panemux/config.toml)")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
