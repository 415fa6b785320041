package cli

import (
	"fmt"
	"io"
	"strings"

	"roomprog/internal/model"
	"roomprog/internal/render"

	"github.com/spf13/cobra"
)

type roomTree []render.UnitGroup

func (t roomTree) WriteText(w io.Writer) error {
	var b strings.Builder
	if len(t) == 0 {
		b.WriteString("No rooms.\n")
	}
	for _, u := range t {
		fmt.Fprintf(&b, "%s\n", u.Name)
		for _, s := range u.Sectors {
			fmt.Fprintf(&b, "  %s\n", s.Name)
			for _, r := range s.Rooms {
				fmt.Fprintf(&b, "    %-8s %s\n", r.ID, r.DisplayName())
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type roomPanel render.RoomInfo

func (p roomPanel) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s (%s)\n  Functional unit: %s\n  Sector: %s\n  Program number: %s\n  Planned area: %s\n",
		p.Name, p.ID, p.Unit, p.Sector, p.ProgramNumber, p.Area)
	return err
}

func newRoomsCmd(app *App) *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the project's rooms by functional unit and sector",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.start(cmd.Context()); err != nil {
				return err
			}
			rooms := app.ctl.Rooms()
			if flat {
				return writeOut(cmd, app, rooms)
			}
			return writeOut(cmd, app, roomTree(render.RoomTree(rooms)))
		}),
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "List rooms without grouping")
	return cmd
}

func newRoomCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "room [room-id]",
		Short: "Show room details (default: the selected room)",
		Args:  cobra.MaximumNArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				if err := app.open(ctx, false); err != nil {
					return err
				}
				id = strings.TrimSpace(args[0])
			} else {
				if err := app.start(ctx); err != nil {
					return err
				}
				id = app.ctl.State().RoomID
				if id == "" {
					return model.ErrNoRoomSelected
				}
			}
			room, err := app.gw.FetchRoom(ctx, id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, roomPanel(render.RoomPanel(room)))
		}),
	}
}
