package cli

import (
	"os"
	"path/filepath"
	"strings"

	"roomprog/internal/export"
	"roomprog/internal/model"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every tab of the selected room to an XLSX workbook",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			st := app.ctl.State()
			if !st.HasRoom() {
				return model.ErrNoRoomSelected
			}
			room, ok := model.FindRoom(app.ctl.Rooms(), st.RoomID)
			if !ok {
				room = model.Room{ID: st.RoomID, Name: st.RoomName}
			}
			app.ctl.Run(ctx, app.ctl.FillRoom())
			if err := app.notifier.failure(); err != nil {
				return err
			}
			data := app.ctl.RoomData(st.RoomID)
			if strings.TrimSpace(out) == "" {
				out = "room-" + st.RoomID + ".xlsx"
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.Wrap(err, "create output dir")
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, "create export file")
			}
			if err := export.Room(f, room, app.cats.All(), data); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "close export file")
			}
			return writeOut(cmd, app, map[string]any{"path": out, "room": st.RoomID, "sheets": len(app.cats.All()) + 1})
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default room-<id>.xlsx)")
	return cmd
}
