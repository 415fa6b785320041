package cli

import (
	"roomprog/internal/controller"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var category string
	var wholeRoom bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the change log of the active tab (or --category, or --room)",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			var task controller.Task
			var err error
			if wholeRoom {
				task, err = app.ctl.ShowRoomHistory()
			} else {
				task, err = app.ctl.ShowHistory(category)
			}
			if err != nil {
				return err
			}
			app.ctl.Run(ctx, task)
			if err := app.notifier.failure(); err != nil {
				return err
			}
			return writeOut(cmd, app, newViewResult(app.ctl.State(), app.ctl.View()))
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "Category to show (default: active tab)")
	cmd.Flags().BoolVar(&wholeRoom, "room", false, "Show changes across every category of the room")
	cmd.MarkFlagsMutuallyExclusive("category", "room")
	return cmd
}
