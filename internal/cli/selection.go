package cli

import (
	"strings"

	"roomprog/internal/model"

	"github.com/spf13/cobra"
)

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <room-id>",
		Short: "Select a room and show its active tab",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			room, ok := model.FindRoom(app.ctl.Rooms(), id)
			if !ok {
				return errNotFound("room", id)
			}
			app.ctl.Run(ctx, app.ctl.SelectRoom(room.ID, room.DisplayName()))
			if err := app.notifier.failure(); err != nil {
				return err
			}
			return writeOut(cmd, app, newViewResult(app.ctl.State(), app.ctl.View()))
		}),
	}
}

func newTabCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tab <category|next|prev>",
		Short: "Switch the active tab",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			target := strings.TrimSpace(args[0])
			switch target {
			case "next":
				target = app.cats.Next(app.ctl.State().Category, 1)
			case "prev":
				target = app.cats.Next(app.ctl.State().Category, -1)
			}
			task, err := app.ctl.SelectCategory(target)
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
}

func newShowCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current view",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			if category != "" {
				task, err := app.ctl.SelectCategory(category)
				if err != nil {
					return err
				}
				app.ctl.Run(ctx, task)
				if err := app.notifier.failure(); err != nil {
					return err
				}
			}
			return writeOut(cmd, app, newViewResult(app.ctl.State(), app.ctl.View()))
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "Switch to this tab first")
	return cmd
}

func newSortCmd(app *App) *cobra.Command {
	var desc bool
	cmd := &cobra.Command{
		Use:   "sort <column>",
		Short: "Show the active table sorted by a column",
		Long:  "Sorting only changes display order; the order is not persisted between invocations.",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.start(cmd.Context()); err != nil {
				return err
			}
			if !app.ctl.State().HasRoom() {
				return model.ErrNoRoomSelected
			}
			steps := 1
			if desc {
				steps = 2
			}
			for i := 0; i < steps; i++ {
				if err := app.ctl.SortBy(args[0]); err != nil {
					return err
				}
			}
			return writeOut(cmd, app, newViewResult(app.ctl.State(), app.ctl.View()))
		}),
	}
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}
