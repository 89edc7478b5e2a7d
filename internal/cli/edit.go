package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tiledraft/tiledraft/pkg/editor"
	levelio "github.com/tiledraft/tiledraft/pkg/io"
	"github.com/tiledraft/tiledraft/pkg/level"
	"github.com/tiledraft/tiledraft/pkg/observability"
	"github.com/tiledraft/tiledraft/pkg/session"
)

// logHooks forwards editor events to the debug log.
type logHooks struct {
	observability.NoopEditorHooks
	logger *log.Logger
}

func (h logHooks) OnGestureBegin(kind string) {
	h.logger.Debug("gesture begin", "kind", kind)
}

func (h logHooks) OnGestureEnd(kind string, steps int) {
	h.logger.Debug("gesture end", "kind", kind, "steps", steps)
}

func (h logHooks) OnUndo(depth int) {
	h.logger.Debug("undo", "depth", depth)
}

func (h logHooks) OnRedo(depth int) {
	h.logger.Debug("redo", "depth", depth)
}

// editCommand creates the edit command that opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		configPath string
		workspace  string
	)

	cmd := &cobra.Command{
		Use:   "edit [level-file]",
		Short: "Open the interactive level editor",
		Long: `Open a level in the interactive terminal editor. Without a level file a
blank level of the configured size is created; with one, the level is
loaded and the s key saves back to it.

The editor maps one block to two terminal columns. Drag objects with the
mouse to move them on the block grid; drag their edges and corners to
resize. Hold ctrl while clicking to clone, alt while dragging for fine
positioning, shift to extend the selection. Keys 1-3 pick the active
layer, v toggles its visibility, o toggles snapping.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			reg, table, err := cfg.BuildRegistry()
			if err != nil {
				return err
			}
			logger.Debug("tileset registry built", "metadata", cfg.Tileset.Metadata)

			var (
				lvl       *level.Level
				levelPath string
			)
			if len(args) == 1 {
				levelPath = args[0]
				if _, statErr := os.Stat(levelPath); statErr == nil {
					lvl, err = levelio.ImportJSON(levelPath, reg, table, nil)
					if err != nil {
						return err
					}
					logger.Debug("level loaded", "path", levelPath)
				}
			}
			if lvl == nil {
				lvl = level.New(reg, table, nil,
					cfg.Level.Width*level.BlockSize, cfg.Level.Height*level.BlockSize)
			}
			ed := editor.New(lvl)
			ed.CurrentLayer = cfg.Editor.Layer

			if logger.GetLevel() <= log.DebugLevel {
				observability.SetEditorHooks(logHooks{logger: logger})
				defer observability.Reset()
			}

			var sess *session.Session
			store, err := session.NewFileStore("")
			if err != nil {
				logger.Warn("session store unavailable", "err", err)
				store = nil
			} else {
				sess, err = store.Get(cmd.Context(), workspace)
				if err != nil {
					logger.Warn("session load failed", "err", err)
				}
				if sess == nil {
					sess = session.New(workspace)
				}
				// Stored preferences carry across runs; an explicit config
				// file wins over the remembered layer.
				if configPath == "" && sess.Preferences.Layer >= 0 && sess.Preferences.Layer < level.LayerCount {
					ed.CurrentLayer = sess.Preferences.Layer
				}
				ed.Snap.Override = sess.Preferences.SnapOverride
				if levelPath != "" {
					sess.Touch(levelPath)
				}
			}

			model := newEditorModel(ed)
			if levelPath != "" {
				model.save = func() error { return levelio.ExportJSON(lvl, levelPath) }
			}

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			if store != nil && sess != nil {
				sess.Preferences.Layer = ed.CurrentLayer
				sess.Preferences.SnapOverride = ed.Snap.Override
				sess.Preferences.TilesetPath = cfg.Tileset.Metadata
				if err := store.Set(cmd.Context(), sess); err != nil {
					logger.Warn("session save failed", "err", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "editor config file (TOML)")
	cmd.Flags().StringVar(&workspace, "workspace", "default", "session workspace name")

	return cmd
}
