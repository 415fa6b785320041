package tui

import (
	"fmt"
	"io"
	"strings"

	"roomprog/internal/glyph"
	"roomprog/internal/model"
	"roomprog/internal/render"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// roomItem is one row of the room tree. Group rows carry no room and are
// skipped by navigation.
type roomItem struct {
	room   model.Room
	group  string
	depth  int
	header bool
}

func (i roomItem) Title() string {
	if i.header {
		return i.group
	}
	return i.room.DisplayName()
}

func (i roomItem) Description() string { return i.group }

// FilterValue lets "/" match rooms by unit and sector as well as name.
func (i roomItem) FilterValue() string {
	if i.header {
		return ""
	}
	return i.room.DisplayName() + " " + i.room.ID + " " + i.group
}

// roomTreeItems flattens the unit/sector tree into list rows.
func roomTreeItems(rooms []model.Room) []list.Item {
	var items []list.Item
	for _, u := range render.RoomTree(rooms) {
		items = append(items, roomItem{group: u.Name, header: true})
		for _, s := range u.Sectors {
			items = append(items, roomItem{group: s.Name, depth: 1, header: true})
			for _, r := range s.Rooms {
				items = append(items, roomItem{room: r, group: u.Name + glyph.Separator() + s.Name, depth: 2})
			}
		}
	}
	return items
}

type roomItemDelegate struct {
	normal   lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	// current is the id of the selected room, marked in the list.
	current *string
}

func newRoomItemDelegate(current *string) roomItemDelegate {
	return roomItemDelegate{
		normal:   lipgloss.NewStyle(),
		header:   lipgloss.NewStyle().Bold(true),
		selected: styleSelected(),
		current:  current,
	}
}

func (d roomItemDelegate) Height() int  { return 1 }
func (d roomItemDelegate) Spacing() int { return 0 }
func (d roomItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d roomItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(roomItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if it.header {
		style = d.header
		if it.depth > 0 {
			style = styleMuted()
		}
	}
	if index == m.Index() && !it.header {
		style = d.selected
	}

	mark := "  "
	if !it.header && d.current != nil && *d.current == it.room.ID {
		mark = glyph.Current() + " "
	}
	line := strings.Repeat("  ", it.depth) + mark + it.Title()
	if !it.header {
		line += styleMuted().Render(" #" + it.room.ID)
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW-1, "…")
	}

	fmt.Fprint(w, style.Render(line))
}

func newRoomList(current *string) list.Model {
	l := list.New(nil, newRoomItemDelegate(current), 0, 0)
	l.Title = "Rooms"
	// The app renders its own chrome.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("room", "rooms")
	// ESC is back/cancel here.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

// skipHeaders moves the cursor off group rows in direction dir.
func skipHeaders(l *list.Model, dir int) {
	items := l.VisibleItems()
	if len(items) == 0 {
		return
	}
	idx := l.Index()
	for i := idx; i >= 0 && i < len(items); i += dir {
		if it, ok := items[i].(roomItem); ok && !it.header {
			l.Select(i)
			return
		}
	}
	// Nothing that way: try the other.
	for i := idx; i >= 0 && i < len(items); i -= dir {
		if it, ok := items[i].(roomItem); ok && !it.header {
			l.Select(i)
			return
		}
	}
}

// selectRoomByID moves the cursor to roomID if it is listed.
func selectRoomByID(l *list.Model, roomID string) bool {
	if roomID == "" {
		return false
	}
	for i, item := range l.Items() {
		if it, ok := item.(roomItem); ok && !it.header && it.room.ID == roomID {
			l.Select(i)
			return true
		}
	}
	return false
}
