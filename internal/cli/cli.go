// Package cli implements the tiledraft command-line interface.
//
// This package provides the interactive terminal level editor plus commands
// for inspecting tileset metadata and the session's recent-level list. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open a level in the interactive terminal editor
//   - tileset: Inspect tileset metadata (objects and randomization entries)
//   - recent: List recently opened levels
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tiledraft/tiledraft/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "tiledraft"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tiledraft is a terminal tile-based level editor",
		Long:         `Tiledraft is a terminal editor for tile-based levels: objects composed from tileset patterns with neighbor-aware tile randomization, interactive resizing and grid snapping.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.tilesetCommand())
	root.AddCommand(c.recentCommand())
	root.AddCommand(c.completionCommand())

	return root
}
