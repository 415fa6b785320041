package cli

import (
	"time"

	"roomprog/internal/session"

	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Persisted selection state",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the selected room and tab of this session",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			if err := app.kv.ClearSession(); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"session": app.kv.Session(), "cleared": true})
		}),
	})

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete state of sessions idle for longer than --older-than",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			n, err := app.kv.PruneOlderThan(olderThan)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"pruned": n})
		}),
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Idle age")
	cmd.AddCommand(prune)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the persisted selection",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			st, err := session.New(app.kv, app.cats).Restore()
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"session": app.kv.Session(), "selection": st})
		}),
	})
	return cmd
}
