package cli

import (
	"fmt"
	"io"
	"strings"

	"roomprog/internal/format"
	"roomprog/internal/glyph"
	"roomprog/internal/render"
	"roomprog/internal/session"
)

type viewResult struct {
	Kind      string        `json:"kind"`
	Selection session.State `json:"selection"`
	render.View
}

func newViewResult(st session.State, v render.View) viewResult {
	return viewResult{Kind: v.Kind.String(), Selection: st, View: v}
}

func (r viewResult) WriteText(w io.Writer) error {
	var b strings.Builder
	if r.Selection.HasRoom() {
		fmt.Fprintf(&b, "%s (%s) / %s\n", r.Selection.RoomName, r.Selection.RoomID, r.Selection.Category)
	}
	switch r.View.Kind {
	case render.KindNone:
		b.WriteString("No room selected. Run `roomprog select <room-id>`.\n")
	case render.KindPending:
		b.WriteString("Loading...\n")
	case render.KindError:
		fmt.Fprintf(&b, "Could not load %s: %s\nRun `roomprog show` to try again.\n", r.View.Category, r.View.Error)
	case render.KindTable:
		writeTableText(&b, r.Table)
	case render.KindForm:
		writeFormText(&b, r.Form)
	case render.KindHistory:
		writeHistoryText(&b, r.History)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTableText(b *strings.Builder, tv *render.TableView) {
	fmt.Fprintf(b, "%s\n", tv.Title)
	if tv.Empty {
		b.WriteString("No items.\n")
		return
	}
	headers := []string{"ID"}
	for _, c := range tv.Columns {
		headers = append(headers, c.Title+glyph.Sort(c.Sort))
	}
	rows := make([][]string, 0, len(tv.Rows))
	for _, r := range tv.Rows {
		rows = append(rows, append([]string{r.ID}, r.Cells...))
	}
	b.WriteString(format.Table(headers, rows))
}

func writeFormText(b *strings.Builder, fv *render.FormView) {
	fmt.Fprintf(b, "%s\n", fv.Title)
	if fv.Missing {
		b.WriteString("No data for the selected room.\n")
	}
	for _, f := range fv.Fields {
		v := f.Value
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(b, "  %s: %s", f.Label, v)
		if len(f.Options) > 0 {
			fmt.Fprintf(b, "  [%s]", strings.Join(f.Options, " | "))
		}
		b.WriteByte('\n')
	}
}

func writeHistoryText(b *strings.Builder, hv *render.HistoryView) {
	fmt.Fprintf(b, "%s\n", hv.Title)
	if hv.NoHistory {
		b.WriteString("No history.\n")
		return
	}
	rows := make([][]string, 0, len(hv.Entries))
	for _, e := range hv.Entries {
		rows = append(rows, []string{e.When, e.User, e.Action, e.Details})
	}
	b.WriteString(format.Table([]string{"When", "User", "Action", "Details"}, rows))
}
