package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tiledraft/tiledraft/pkg/session"
)

// recentCommand creates the recent command for listing and pruning the
// session's recently opened levels.
func (c *CLI) recentCommand() *cobra.Command {
	var (
		workspace string
		prune     bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewFileStore("")
			if err != nil {
				return err
			}

			if prune {
				if err := store.Prune(cmd.Context()); err != nil {
					return err
				}
				printSuccess("pruned missing levels from all workspaces")
			}

			sess, err := store.Get(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			if sess == nil || len(sess.Recents) == 0 {
				printInfo("no recent levels in workspace %q", workspace)
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Workspace %s", workspace)))
			for i, r := range sess.Recents {
				printKeyValue(fmt.Sprintf("%d", i+1), r)
			}
			printNewline()
			printDetail("session file: %s", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "default", "session workspace name")
	cmd.Flags().BoolVar(&prune, "prune", false, "drop entries whose level files no longer exist")

	return cmd
}
