package tui

import (
	"strconv"
	"strings"

	"roomprog/internal/controller"
	"roomprog/internal/model"
	"roomprog/internal/render"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case resultMsg:
		next := m.ctl.Apply(msg.res)
		return m, m.afterController(next)

	case roomInfoMsg:
		if msg.err != nil {
			m.log.Warn("room info", zap.String("room", msg.roomID), zap.Error(msg.err))
			return m, m.showMinibuffer(controller.NoticeError, model.UserMessage(msg.err))
		}
		if msg.roomID != m.ctl.State().RoomID {
			return m, nil
		}
		info := msg.info
		m.info = &info
		m.modal = modalRoomInfo
		return m, nil

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.Loading() {
			m.spinning = false
			return m, nil
		}
		m.spinning = true
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalEditor:
			return m.updateEditor(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modalRoomInfo:
			switch msg.String() {
			case "esc", "enter", "q", "i", "ctrl+g":
				m.closeModal()
			}
			return m, nil
		}
		// The list owns every key while its filter prompt is open.
		if m.pane == paneRooms && m.roomsList.SettingFilter() {
			var cmd tea.Cmd
			m.roomsList, cmd = m.roomsList.Update(msg)
			return m, cmd
		}
		if mm, cmd, ok := m.updateGlobalKey(msg); ok {
			return mm, cmd
		}
		if m.pane == paneRooms {
			return m.updateRoomsKey(msg)
		}
		return m.updateContentKey(msg)
	}

	if m.pane == paneRooms {
		var cmd tea.Cmd
		m.roomsList, cmd = m.roomsList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateGlobalKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch k := msg.String(); k {
	case "q":
		return m, tea.Quit, true
	case "tab":
		if m.pane == paneRooms {
			m.pane = paneContent
		} else {
			m.pane = paneRooms
		}
		return m, nil, true
	case "[", "]":
		delta := 1
		if k == "[" {
			delta = -1
		}
		next := m.ctl.Catalog().Next(m.ctl.State().Category, delta)
		return m, m.selectCategory(next), true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(k)
		ids := m.ctl.Catalog().IDs()
		if n > len(ids) {
			return m, nil, true
		}
		return m, m.selectCategory(ids[n-1]), true
	case "r":
		return m, m.afterController(m.ctl.Retry()), true
	case "R":
		return m, m.afterController(m.ctl.RefreshRooms()), true
	case "h":
		t, err := m.ctl.ShowHistory("")
		if err != nil {
			return m, m.showMinibuffer(controller.NoticeError, model.UserMessage(err)), true
		}
		return m, m.afterController(t), true
	case "H":
		t, err := m.ctl.ShowRoomHistory()
		if err != nil {
			return m, m.showMinibuffer(controller.NoticeError, model.UserMessage(err)), true
		}
		return m, m.afterController(t), true
	case "i":
		id := m.ctl.State().RoomID
		if id == "" {
			return m, m.showMinibuffer(controller.NoticeWarning, "Select a room first"), true
		}
		return m, m.fetchRoomInfo(id), true
	case "C":
		m.ctl.ClearRoom()
		m.pane = paneRooms
		return m, m.afterController(nil), true
	case "esc", "ctrl+g":
		if m.pane == paneRooms && m.roomsList.IsFiltered() {
			return m, nil, false
		}
		if m.ctl.View().Kind == render.KindHistory {
			return m, m.afterController(m.ctl.CloseHistory()), true
		}
		if m.pane == paneContent {
			m.pane = paneRooms
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m *appModel) selectCategory(id string) tea.Cmd {
	t, err := m.ctl.SelectCategory(id)
	if err != nil {
		return m.showMinibuffer(controller.NoticeError, model.UserMessage(err))
	}
	return m.afterController(t)
}

func (m appModel) updateRoomsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		it, ok := m.roomsList.SelectedItem().(roomItem)
		if !ok || it.header {
			return m, nil
		}
		t := m.ctl.SelectRoom(it.room.ID, it.room.DisplayName())
		m.pane = paneContent
		return m, m.afterController(t)
	}

	var cmd tea.Cmd
	m.roomsList, cmd = m.roomsList.Update(msg)
	dir := 1
	switch msg.String() {
	case "up", "k", "ctrl+p", "pgup", "home", "g":
		dir = -1
	}
	skipHeaders(&m.roomsList, dir)
	return m, cmd
}

func (m appModel) updateContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.ctl.View()
	switch msg.String() {
	case "up", "k", "ctrl+p":
		m.row--
		m.clampCursor()
	case "down", "j", "ctrl+n":
		m.row++
		m.clampCursor()
	case "left":
		m.col--
		m.clampCursor()
	case "right":
		m.col++
		m.clampCursor()
	case "s":
		if v.Kind != render.KindTable || v.Table == nil || len(v.Table.Columns) == 0 {
			return m, nil
		}
		if err := m.ctl.SortBy(v.Table.Columns[m.col].Key); err != nil {
			return m, m.showMinibuffer(controller.NoticeError, err.Error())
		}
		return m, m.afterController(nil)
	case "a":
		if v.Kind != render.KindTable || v.Table == nil {
			return m, nil
		}
		m.editor = newRowEditor(*v.Table, nil)
		m.modal = modalEditor
	case "e", "enter":
		switch {
		case v.Kind == render.KindTable && v.Table != nil:
			row, ok := m.selectedRow()
			if !ok {
				return m, nil
			}
			m.editor = newRowEditor(*v.Table, &row)
			m.modal = modalEditor
		case v.Kind == render.KindForm:
			if err := m.ctl.SetEditing(true); err != nil {
				return m, m.showMinibuffer(controller.NoticeError, err.Error())
			}
			if fv := m.ctl.View().Form; fv != nil {
				m.editor = newSpecialEditor(*fv)
				m.modal = modalEditor
			}
		}
	case "d", "delete":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.confirm = deleteConfirm{itemID: row.ID, label: strings.Join(nonEmpty(row.Cells), " · "), focus: confirmFocusCancel}
		m.modal = modalConfirmDelete
	}
	return m, nil
}

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor
	if ed == nil {
		m.closeModal()
		return m, nil
	}
	if ed.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc", "ctrl+g":
		if ed.mode == editorSpecial {
			_ = m.ctl.SetEditing(false)
		}
		m.closeModal()
		return m, nil
	case "tab", "down":
		ed.focusField(ed.focus + 1)
		return m, nil
	case "shift+tab", "up":
		ed.focusField(ed.focus - 1)
		return m, nil
	case "enter":
		if !ed.lastFocused() {
			ed.focusField(ed.focus + 1)
			return m, nil
		}
		return m.submitEditor()
	case "ctrl+s":
		return m.submitEditor()
	}
	return m, ed.update(msg)
}

func (m appModel) submitEditor() (tea.Model, tea.Cmd) {
	ed := m.editor
	fields := ed.values()

	var (
		t   controller.Task
		err error
	)
	switch ed.mode {
	case editorAddItem:
		t, err = m.ctl.CreateItem(fields)
	case editorEditItem:
		if len(fields) == 0 {
			m.closeModal()
			return m, m.showMinibuffer(controller.NoticeInfo, "No changes")
		}
		t, err = m.ctl.UpdateItem(ed.itemID, fields)
	case editorSpecial:
		t, err = m.ctl.SaveSpecial(fields)
	}
	if err != nil {
		return m, m.showMinibuffer(controller.NoticeError, model.UserMessage(err))
	}
	ed.submitting = true
	return m, m.afterController(t)
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.closeModal()
		return m, nil
	case "tab", "shift+tab", "left", "right":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirm.focus = confirmFocusConfirm
		fallthrough
	case "enter":
		id := m.confirm.itemID
		confirmed := m.confirm.focus == confirmFocusConfirm
		m.closeModal()
		if !confirmed {
			return m, nil
		}
		t, err := m.ctl.DeleteItem(id)
		if err != nil {
			return m, m.showMinibuffer(controller.NoticeError, model.UserMessage(err))
		}
		return m, m.afterController(t)
	}
	return m, nil
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
