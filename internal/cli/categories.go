package cli

import (
	"io"

	"roomprog/internal/format"
	"roomprog/internal/model"

	"github.com/spf13/cobra"
)

type categoryList []model.Category

func (l categoryList) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		kind := "table"
		if c.Special {
			kind = "form"
		}
		rows = append(rows, []string{c.ID, c.DisplayTitle(), kind})
	}
	_, err := io.WriteString(w, format.Table([]string{"ID", "Title", "Kind"}, rows))
	return err
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog (tabs)",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			return writeOut(cmd, app, categoryList(app.cats.All()))
		}),
	}
}
