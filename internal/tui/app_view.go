package tui

import (
	"fmt"
	"strings"

	"roomprog/internal/controller"
	"roomprog/internal/glyph"
	"roomprog/internal/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	if m.modal != modalNone {
		var box string
		switch m.modal {
		case modalEditor:
			if m.editor != nil {
				box = m.editor.view(m.width)
			}
		case modalConfirmDelete:
			body := "Delete item #" + m.confirm.itemID + "?"
			if m.confirm.label != "" {
				body += "\n" + styleMuted().Render(m.confirm.label)
			}
			box = renderConfirmModal(m.width, "Delete item", body, "Delete", "Cancel", m.confirm.focus)
		case modalRoomInfo:
			box = m.roomInfoView()
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	bodyH := max(m.height-chromeHeight, 3)
	leftW, rightW := paneWidths(m.width)

	left := stylePane(m.pane == paneRooms).Render(
		normalizePane(m.roomsList.View(), leftW-paneBorderPad, bodyH-paneBorderPad))
	innerW := rightW - paneBorderPad
	right := stylePane(m.pane == paneContent).Render(
		normalizePane(m.contentView(innerW, bodyH-paneBorderPad), innerW, bodyH-paneBorderPad))

	return strings.Join([]string{
		normalizePane(m.headerView(), m.width, 1),
		normalizePane(m.tabsView(m.width), m.width, 1),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		normalizePane(styleMuted().Render(m.helpText()), m.width, 1),
		normalizePane(m.minibufferView(), m.width, 1),
	}, "\n")
}

func (m appModel) headerView() string {
	st := m.ctl.State()
	parts := []string{lipgloss.NewStyle().Bold(true).Render("roomprog"), "Project=" + emptyAsDash(m.projectID)}
	if st.HasRoom() {
		crumb := st.RoomName + " #" + st.RoomID
		if cat, ok := m.ctl.Catalog().Get(st.Category); ok {
			crumb += glyph.Separator() + cat.DisplayTitle()
		}
		parts = append(parts, crumb)
	}
	if m.ctl.Loading() {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}

// tabsView renders the category tabs, scrolled so the active one is visible.
func (m appModel) tabsView(width int) string {
	active := m.ctl.State().Category
	cats := m.ctl.Catalog().All()
	labels := make([]string, len(cats))
	idx := 0
	for i, c := range cats {
		label := fmt.Sprintf("%d %s", i+1, c.DisplayTitle())
		if i >= 9 {
			label = c.DisplayTitle()
		}
		if c.ID == active {
			idx = i
			labels[i] = styleTabActive().Render(label)
		} else {
			labels[i] = styleTab().Render(label)
		}
	}
	if len(labels) == 0 {
		return ""
	}

	lo, hi := idx, idx+1
	used := xansi.StringWidth(labels[idx])
	for {
		grew := false
		if hi < len(labels) && used+xansi.StringWidth(labels[hi]) <= width {
			used += xansi.StringWidth(labels[hi])
			hi++
			grew = true
		}
		if lo > 0 && used+xansi.StringWidth(labels[lo-1]) <= width {
			lo--
			used += xansi.StringWidth(labels[lo])
			grew = true
		}
		if !grew {
			break
		}
	}
	return strings.Join(labels[lo:hi], "")
}

func (m appModel) contentView(w, h int) string {
	v := m.ctl.View()
	switch v.Kind {
	case render.KindPending:
		return m.spinner.View() + " Loading " + m.categoryTitle(v.Category) + "..."
	case render.KindError:
		msg := lipgloss.NewStyle().Foreground(colorError).Render("Could not load " + m.categoryTitle(v.Category) + ": " + v.Error)
		return msg + "\n\n" + styleMuted().Render("Press r to retry.")
	case render.KindTable:
		if v.Table != nil {
			return m.tableView(*v.Table, w, h)
		}
	case render.KindForm:
		if v.Form != nil {
			return formView(*v.Form)
		}
	case render.KindHistory:
		if v.History != nil {
			return renderMarkdown(historyMarkdown(*v.History), w)
		}
	}
	if len(m.ctl.Rooms()) == 0 {
		return styleMuted().Render("No rooms loaded. Press R to reload.")
	}
	return styleMuted().Render("No room selected. Choose a room and press enter.")
}

func (m appModel) categoryTitle(id string) string {
	if cat, ok := m.ctl.Catalog().Get(id); ok {
		return cat.DisplayTitle()
	}
	return id
}

func (m appModel) tableView(tv render.TableView, w, h int) string {
	title := lipgloss.NewStyle().Bold(true).Render(tv.Title)
	if tv.Empty {
		return title + "\n\n" + styleMuted().Render("No items. Press a to add one.")
	}

	headers := make([]string, 0, len(tv.Columns)+1)
	headers = append(headers, "#")
	for _, c := range tv.Columns {
		headers = append(headers, c.Title+glyph.Sort(c.Sort))
	}

	// Title, blank line, borders and header take six lines.
	start, end := window(len(tv.Rows), m.row, h-6)
	rows := make([][]string, 0, end-start)
	for _, r := range tv.Rows[start:end] {
		rows = append(rows, append([]string{r.ID}, r.Cells...))
	}

	focused := m.pane == paneContent
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		Width(w).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				st = st.Bold(true)
				if focused && col == m.col+1 {
					st = st.Underline(true)
				}
			case focused && row+start == m.row:
				st = styleSelected().Padding(0, 1)
			}
			return st
		})

	out := title + "\n\n" + t.String()
	if start > 0 || end < len(tv.Rows) {
		out += "\n" + styleMuted().Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(tv.Rows)))
	}
	return out
}

func formView(fv render.FormView) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fv.Title))
	b.WriteString("\n\n")
	if fv.Missing {
		b.WriteString(styleMuted().Render("No data for this room yet. Press e to fill it in."))
		b.WriteString("\n\n")
	}
	labelW := 0
	for _, f := range fv.Fields {
		labelW = max(labelW, xansi.StringWidth(f.Label))
	}
	label := styleMuted().Width(labelW + 2)
	for _, f := range fv.Fields {
		v := f.Value
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		b.WriteString(label.Render(f.Label))
		b.WriteString(v)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) roomInfoView() string {
	if m.info == nil {
		return ""
	}
	p := m.info
	rows := [][2]string{
		{"Functional unit", p.Unit},
		{"Sector", p.Sector},
		{"Program number", p.ProgramNumber},
		{"Planned area", p.Area},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(styleMuted().Width(18).Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("esc: close"))
	return renderModalBox(m.width, p.Name+" #"+p.ID, b.String())
}

func (m appModel) helpText() string {
	if m.pane == paneRooms {
		return "enter: open  /: filter  tab: content  [ ]: tabs  R: reload rooms  i: info  C: clear  q: quit"
	}
	switch m.ctl.View().Kind {
	case render.KindTable:
		return "a: add  e: edit  d: delete  s: sort  ←/→: column  h/H: history  r: retry  [ ]: tabs  tab: rooms"
	case render.KindForm:
		return "e: edit  h/H: history  r: retry  [ ]: tabs  tab: rooms"
	case render.KindHistory:
		return "esc: back  [ ]: tabs  tab: rooms"
	}
	return "r: retry  [ ]: tabs  tab: rooms  q: quit"
}

func (m appModel) minibufferView() string {
	if m.minibufferText == "" {
		return ""
	}
	st := lipgloss.NewStyle()
	switch m.minibufferKind {
	case controller.NoticeSuccess:
		st = st.Foreground(colorSuccess)
	case controller.NoticeWarning:
		st = st.Foreground(colorWarning)
	case controller.NoticeError:
		st = st.Foreground(colorError).Bold(true)
	}
	return st.Render(m.minibufferText)
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
