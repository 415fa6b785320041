package tui

import (
	"context"
	"time"

	"roomprog/internal/controller"
	"roomprog/internal/render"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const listenerName = "tui"

const minibufferAutoClearAfter = 4 * time.Second

type pane int

const (
	paneRooms pane = iota
	paneContent
)

type modalKind int

const (
	modalNone modalKind = iota
	modalEditor
	modalConfirmDelete
	modalRoomInfo
)

// resultMsg carries a finished controller task back onto the update loop.
type resultMsg struct{ res controller.Result }

type roomInfoMsg struct {
	roomID string
	info   render.RoomInfo
	err    error
}

type minibufferClearMsg struct{ seq int }

type notice struct {
	kind controller.NoticeKind
	text string
}

// bridge collects what the controller reports while the update loop calls it.
// Controller calls only happen on the loop, so no locking is needed.
type bridge struct {
	notices      []notice
	roomsChanged bool
	mutated      bool
	mutatedItem  string
}

type deleteConfirm struct {
	itemID string
	label  string
	focus  confirmModalFocus
}

type appModel struct {
	ctx       context.Context
	ctl       *controller.Controller
	rooms     RoomFetcher
	log       *zap.Logger
	projectID string

	width  int
	height int

	pane  pane
	modal modalKind

	roomsList list.Model
	// currentRoom is shared with the list delegate to mark the selected room.
	currentRoom *string

	row int
	col int
	// lastKey is the room/category the cursor belongs to.
	lastKey string
	// focusItemID moves the cursor to a freshly written row once it renders.
	focusItemID string

	spinner  spinner.Model
	spinning bool
	animate  bool

	minibufferText string
	minibufferKind controller.NoticeKind
	minibufferSeq  int
	minibufferTTL  time.Duration

	editor  *fieldEditor
	confirm deleteConfirm
	info    *render.RoomInfo

	b *bridge
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	current := new(string)
	m := appModel{
		ctx:           ctx,
		ctl:           opts.Controller,
		rooms:         opts.Rooms,
		log:           log.Named("tui"),
		projectID:     opts.ProjectID,
		pane:          paneRooms,
		roomsList:     newRoomList(current),
		currentRoom:   current,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		animate:       true,
		minibufferTTL: minibufferAutoClearAfter,
		b:             &bridge{},
	}

	b := m.b
	m.ctl.SetNotifier(controller.NotifierFunc(func(kind controller.NoticeKind, msg string) {
		b.notices = append(b.notices, notice{kind: kind, text: msg})
	}))
	m.ctl.Subscribe(listenerName, func(ev controller.Event) {
		switch ev.Kind {
		case controller.EventRooms:
			b.roomsChanged = true
		case controller.EventMutated:
			b.mutated = true
			b.mutatedItem = ev.ItemID
		}
	})
	return m
}

func (m appModel) detach() {
	m.ctl.Unsubscribe(listenerName)
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.runTask(m.ctl.Start())}
	if m.animate {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// runTask runs t off the loop; its result comes back as a resultMsg.
func (m appModel) runTask(t controller.Task) tea.Cmd {
	if t == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{res: t(ctx)}
	}
}

func (m appModel) fetchRoomInfo(roomID string) tea.Cmd {
	if m.rooms == nil || roomID == "" {
		return nil
	}
	ctx, rooms := m.ctx, m.rooms
	return func() tea.Msg {
		room, err := rooms.FetchRoom(ctx, roomID)
		if err != nil {
			return roomInfoMsg{roomID: roomID, err: err}
		}
		return roomInfoMsg{roomID: roomID, info: render.RoomPanel(room)}
	}
}

// afterController folds whatever the controller reported during the last call
// into the model and schedules t.
func (m *appModel) afterController(t controller.Task) tea.Cmd {
	cmds := []tea.Cmd{m.runTask(t)}

	st := m.ctl.State()
	*m.currentRoom = st.RoomID

	if m.b.roomsChanged {
		m.b.roomsChanged = false
		m.reloadRoomList()
	}

	if key := st.RoomID + "\x00" + st.Category; key != m.lastKey {
		m.lastKey = key
		m.row, m.col = 0, 0
	}

	failed := false
	for _, n := range m.b.notices {
		failed = failed || n.kind == controller.NoticeError
		cmds = append(cmds, m.showMinibuffer(n.kind, n.text))
	}
	m.b.notices = nil

	if m.b.mutated {
		m.b.mutated = false
		if m.b.mutatedItem != "" {
			m.focusItemID = m.b.mutatedItem
		}
		m.b.mutatedItem = ""
		if m.modal == modalEditor && m.editor != nil && m.editor.submitting {
			m.closeModal()
		}
	} else if failed && m.editor != nil && m.editor.submitting {
		// Keep the editor open with the user's input.
		m.editor.submitting = false
	}

	m.clampCursor()

	if m.animate && !m.spinning && m.ctl.Loading() {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *appModel) reloadRoomList() {
	idx := m.roomsList.Index()
	m.roomsList.SetItems(roomTreeItems(m.ctl.Rooms()))
	if !selectRoomByID(&m.roomsList, *m.currentRoom) {
		if idx < len(m.roomsList.Items()) {
			m.roomsList.Select(idx)
		}
		skipHeaders(&m.roomsList, 1)
	}
}

// clampCursor keeps the row and column cursors inside the current table.
func (m *appModel) clampCursor() {
	v := m.ctl.View()
	if v.Table == nil || v.Kind != render.KindTable {
		m.row, m.col = 0, 0
		return
	}
	if m.focusItemID != "" {
		for i, r := range v.Table.Rows {
			if r.ID == m.focusItemID {
				m.row = i
				m.focusItemID = ""
				break
			}
		}
	}
	m.row = min(max(m.row, 0), max(len(v.Table.Rows)-1, 0))
	m.col = min(max(m.col, 0), max(len(v.Table.Columns)-1, 0))
}

func (m *appModel) showMinibuffer(kind controller.NoticeKind, text string) tea.Cmd {
	m.minibufferKind = kind
	m.minibufferText = text
	m.minibufferSeq++
	if m.minibufferTTL <= 0 {
		return nil
	}
	seq := m.minibufferSeq
	return tea.Tick(m.minibufferTTL, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.editor = nil
	m.info = nil
	m.confirm = deleteConfirm{}
}

func (m *appModel) resizeLists() {
	left, _ := paneWidths(m.width)
	h := m.height - chromeHeight - paneBorderPad
	m.roomsList.SetSize(max(left-paneBorderPad, 0), max(h, 0))
}

// selectedRow returns the table row under the cursor.
func (m appModel) selectedRow() (render.Row, bool) {
	v := m.ctl.View()
	if v.Kind != render.KindTable || v.Table == nil || len(v.Table.Rows) == 0 {
		return render.Row{}, false
	}
	if m.row < 0 || m.row >= len(v.Table.Rows) {
		return render.Row{}, false
	}
	return v.Table.Rows[m.row], true
}
