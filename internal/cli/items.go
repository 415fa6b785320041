package cli

import (
	"context"
	"fmt"
	"io"

	"roomprog/internal/controller"

	"github.com/spf13/cobra"
)

type mutationResult struct {
	Action string     `json:"action"`
	ItemID string     `json:"itemId,omitempty"`
	View   viewResult `json:"view"`
}

func (r mutationResult) WriteText(w io.Writer) error {
	line := r.Action
	if r.ItemID != "" {
		line += " " + r.ItemID
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	return r.View.WriteText(w)
}

// switchTab makes category active before a command acts on "the active tab".
func (app *App) switchTab(ctx context.Context, category string) error {
	if category == "" {
		return nil
	}
	task, err := app.ctl.SelectCategory(category)
	if err != nil {
		return err
	}
	app.ctl.Run(ctx, task)
	return app.notifier.failure()
}

// mutate runs a write through the controller and waits for the refreshed view.
func (app *App) mutate(ctx context.Context, action string, build func() (controller.Task, error)) (mutationResult, error) {
	var itemID string
	app.ctl.Subscribe("cli.mutation", func(ev controller.Event) {
		if ev.Kind == controller.EventMutated {
			itemID = ev.ItemID
		}
	})
	defer app.ctl.Unsubscribe("cli.mutation")

	task, err := build()
	if err != nil {
		return mutationResult{}, err
	}
	app.ctl.Run(ctx, task)
	if err := app.notifier.failure(); err != nil {
		return mutationResult{}, err
	}
	return mutationResult{
		Action: action,
		ItemID: itemID,
		View:   newViewResult(app.ctl.State(), app.ctl.View()),
	}, nil
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Add, edit or delete rows of the active table",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var category, raw string
	var pairs []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a row to the selected room",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(pairs, raw)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			if err := app.switchTab(ctx, category); err != nil {
				return err
			}
			res, err := app.mutate(ctx, "created", func() (controller.Task, error) {
				return app.ctl.CreateItem(fields)
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res)
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "Switch to this tab first")
	addFieldFlags(cmd, &pairs, &raw)
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var category, raw string
	var pairs []string
	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Change fields of a row",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(pairs, raw)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			if err := app.switchTab(ctx, category); err != nil {
				return err
			}
			res, err := app.mutate(ctx, "updated", func() (controller.Task, error) {
				return app.ctl.UpdateItem(args[0], fields)
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res)
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "Switch to this tab first")
	addFieldFlags(cmd, &pairs, &raw)
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			if err := app.switchTab(ctx, category); err != nil {
				return err
			}
			res, err := app.mutate(ctx, "deleted", func() (controller.Task, error) {
				return app.ctl.DeleteItem(args[0])
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res)
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "Switch to this tab first")
	return cmd
}

func newSpecialCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "special",
		Short: "Single-record tabs (functionality, requirements, ...)",
	}
	var category, raw string
	var pairs []string
	save := &cobra.Command{
		Use:   "save",
		Short: "Save fields of the active single-record tab for the selected room",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(pairs, raw)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			if err := app.switchTab(ctx, category); err != nil {
				return err
			}
			res, err := app.mutate(ctx, "saved", func() (controller.Task, error) {
				if err := app.ctl.SetEditing(true); err != nil {
					return nil, err
				}
				return app.ctl.SaveSpecial(fields)
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res)
		}),
	}
	save.Flags().StringVar(&category, "category", "", "Switch to this tab first")
	addFieldFlags(save, &pairs, &raw)
	cmd.AddCommand(save)
	return cmd
}
