package tui

import (
	"strings"

	"roomprog/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type editorMode int

const (
	editorAddItem editorMode = iota
	editorEditItem
	editorSpecial
)

type editorField struct {
	key     string
	label   string
	options []string
	initial string
	input   textinput.Model
}

// fieldEditor is the modal form used for every write: adding or editing a
// row, and saving a special category's record.
type fieldEditor struct {
	mode       editorMode
	title      string
	itemID     string
	fields     []editorField
	focus      int
	submitting bool
}

// Fields the server fills from the selection.
var implicitFields = map[string]bool{"room_id": true, "room_name": true}

func newEditorField(key, label, value string, options []string) editorField {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	in.SetValue(value)
	if len(options) > 0 {
		in.Placeholder = strings.Join(options, " | ")
	}
	return editorField{key: key, label: label, options: options, initial: value, input: in}
}

func newRowEditor(tv render.TableView, row *render.Row) *fieldEditor {
	ed := &fieldEditor{mode: editorAddItem, title: "Add to " + tv.Title}
	if row != nil {
		ed.mode = editorEditItem
		ed.itemID = row.ID
		ed.title = "Edit " + tv.Title + " #" + row.ID
	}
	for i, c := range tv.Columns {
		if implicitFields[c.Key] {
			continue
		}
		value := ""
		if row != nil && i < len(row.Cells) {
			value = row.Cells[i]
		}
		ed.fields = append(ed.fields, newEditorField(c.Key, c.Title, value, nil))
	}
	ed.focusField(0)
	return ed
}

func newSpecialEditor(fv render.FormView) *fieldEditor {
	ed := &fieldEditor{mode: editorSpecial, title: "Edit " + fv.Title}
	for _, f := range fv.Fields {
		if implicitFields[f.Key] {
			continue
		}
		ed.fields = append(ed.fields, newEditorField(f.Key, f.Label, f.Value, f.Options))
	}
	ed.focusField(0)
	return ed
}

func (ed *fieldEditor) focusField(i int) {
	if len(ed.fields) == 0 {
		return
	}
	n := len(ed.fields)
	i = ((i % n) + n) % n
	for j := range ed.fields {
		ed.fields[j].input.Blur()
	}
	ed.focus = i
	ed.fields[i].input.Focus()
}

func (ed *fieldEditor) update(msg tea.Msg) tea.Cmd {
	if len(ed.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	ed.fields[ed.focus].input, cmd = ed.fields[ed.focus].input.Update(msg)
	return cmd
}

func (ed *fieldEditor) lastFocused() bool { return ed.focus == len(ed.fields)-1 }

// values returns the submitted fields. A new row omits blanks; an edit sends
// only what changed.
func (ed *fieldEditor) values() map[string]any {
	out := map[string]any{}
	for _, f := range ed.fields {
		v := strings.TrimSpace(f.input.Value())
		switch ed.mode {
		case editorAddItem:
			if v == "" {
				continue
			}
		case editorEditItem:
			if v == strings.TrimSpace(f.initial) {
				continue
			}
		}
		out[f.key] = v
	}
	return out
}

func (ed *fieldEditor) view(width int) string {
	bodyW := modalBodyWidth(width)
	var b strings.Builder
	for i, f := range ed.fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderInputLine(bodyW, f.label, f.input.View(), i == ed.focus))
	}
	if len(ed.fields) == 0 {
		b.WriteString(styleMuted().Render("No editable fields."))
	}
	b.WriteString("\n\n")
	if ed.submitting {
		b.WriteString(styleMuted().Render("Saving..."))
	} else {
		b.WriteString(styleMuted().Width(bodyW).Render("tab/shift+tab: field   enter: next/save   ctrl+s: save   esc: cancel"))
	}
	return renderModalBox(width, ed.title, b.String())
}
