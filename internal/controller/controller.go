// Package controller owns room/tab selection: which room is selected, which tab
// is active, what has been fetched, and what is on screen.
//
// All methods must be called from a single goroutine (the UI loop). Network
// work is handed out as Tasks; their Results come back through Apply.
package controller

import (
	"context"
	"sort"

	"roomprog/internal/cache"
	"roomprog/internal/catalog"
	"roomprog/internal/model"
	"roomprog/internal/render"
	"roomprog/internal/session"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Options struct {
	ProjectID string
	Catalog   *catalog.Catalog
	Selection *session.Store
	Cache     *cache.Cache
	Gateway   Gateway
	Notifier  Notifier
	Logger    *zap.Logger
	Prefetch  Prefetch
}

type Controller struct {
	projectID string
	cats      *catalog.Catalog
	sel       *session.Store
	cache     *cache.Cache
	gw        Gateway
	notifier  Notifier
	log       *zap.Logger
	prefetch  Prefetch

	rooms   []model.Room
	sorts   map[string]render.Sort
	editing bool
	view    render.View

	seq       uint64
	loading   map[uint64]bool
	inflight  map[cache.Key]uint64
	bulk      map[string]uint64
	retry     func() Task
	history   uint64
	listeners map[string]Listener
}

func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(NoticeKind, string) {})
	}
	c := opts.Cache
	if c == nil {
		c = cache.New()
	}
	return &Controller{
		projectID: opts.ProjectID,
		cats:      opts.Catalog,
		sel:       opts.Selection,
		cache:     c,
		gw:        opts.Gateway,
		notifier:  notifier,
		log:       log.Named("controller"),
		prefetch:  opts.Prefetch,
		sorts:     map[string]render.Sort{},
		loading:   map[uint64]bool{},
		inflight:  map[cache.Key]uint64{},
		bulk:      map[string]uint64{},
		listeners: map[string]Listener{},
	}
}

// Subscribe registers l under name. Subscribing the same name again replaces
// the previous listener, so wiring can be repeated safely.
func (c *Controller) Subscribe(name string, l Listener) {
	if l == nil {
		delete(c.listeners, name)
		return
	}
	c.listeners[name] = l
}

func (c *Controller) Unsubscribe(name string) { delete(c.listeners, name) }

// SetNotifier replaces the notification surface, for hosts built after the controller.
func (c *Controller) SetNotifier(n Notifier) {
	if n != nil {
		c.notifier = n
	}
}

func (c *Controller) emit(ev Event) {
	names := make([]string, 0, len(c.listeners))
	for n := range c.listeners {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c.listeners[n](ev)
	}
}

func (c *Controller) State() session.State      { return c.sel.State() }
func (c *Controller) View() render.View         { return c.view }
func (c *Controller) Rooms() []model.Room       { return c.rooms }
func (c *Controller) Loading() bool             { return len(c.loading) > 0 }
func (c *Controller) Catalog() *catalog.Catalog { return c.cats }
func (c *Controller) Editing() bool             { return c.editing }

// Sort returns the display order of a tabular category.
func (c *Controller) Sort(category string) render.Sort { return c.sorts[category] }

// Run executes t and every follow-up task inline, for hosts without an event loop.
func (c *Controller) Run(ctx context.Context, t Task) {
	for t != nil {
		t = c.Apply(t(ctx))
	}
}

// Start restores the persisted selection and loads the room list. Cached data
// never survives a restart, so a restored room is always fetched again.
func (c *Controller) Start() Task {
	st, err := c.sel.Restore()
	if err != nil {
		c.log.Error("restore selection", zap.Error(err))
		c.notifier.Notify(NoticeWarning, "Could not restore the previous selection")
	}
	c.log.Debug("start", zap.String("room", st.RoomID), zap.String("category", st.Category))
	c.emit(Event{Kind: EventSelection, State: c.sel.State()})
	return c.loadRooms()
}

// RefreshRooms reloads the room list and drops every cached tab, so the
// active tab is fetched again once the list is back.
func (c *Controller) RefreshRooms() Task {
	c.log.Debug("refresh rooms", zap.Int("cached", c.cache.Len()))
	c.cache.Clear()
	return c.loadRooms()
}

// FillRoom loads every category of the selected room into the cache in one
// round trip. It returns nil when nothing is missing.
func (c *Controller) FillRoom() Task {
	st := c.sel.State()
	if !st.HasRoom() {
		return nil
	}
	complete := true
	for _, id := range c.cats.IDs() {
		if _, ok := c.cache.Get(st.RoomID, id); !ok {
			complete = false
			break
		}
	}
	if complete || c.loadingFor(st.RoomID, "") {
		return nil
	}
	return c.fetchRoom(st.RoomID)
}

// RoomData returns the cached categories of roomID.
func (c *Controller) RoomData(roomID string) map[string]model.CategoryData {
	out := map[string]model.CategoryData{}
	for _, id := range c.cats.IDs() {
		if d, ok := c.cache.Get(roomID, id); ok {
			out[id] = d
		}
	}
	return out
}

func (c *Controller) loadRooms() Task {
	t := c.issue("", "", true)
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		rooms, err := gw.FetchRooms(ctx, pid)
		return roomsLoaded{t: t, rooms: rooms, err: err}
	}
}

// SelectRoom makes roomID current and shows the active tab for it.
// Re-selecting the current room is a no-op while its data is cached or loading.
func (c *Controller) SelectRoom(roomID, roomName string) Task {
	st := c.sel.State()
	if st.RoomID == roomID && st.RoomName == roomName && roomID != "" && c.haveOrLoading(roomID, st.Category) {
		return nil
	}
	if err := c.sel.SetRoom(roomID, roomName); err != nil {
		c.log.Error("select room", zap.String("room", roomID), zap.Error(err))
		c.notifier.Notify(NoticeError, err.Error())
		return nil
	}
	c.log.Debug("select room", zap.String("room", roomID), zap.String("category", st.Category))
	c.resetTransient()
	c.emit(Event{Kind: EventSelection, State: c.sel.State()})
	return c.showActive()
}

// ClearRoom returns to NoRoomSelected.
func (c *Controller) ClearRoom() {
	if err := c.sel.ClearRoom(); err != nil {
		c.log.Warn("clear room", zap.Error(err))
	}
	c.resetTransient()
	c.emit(Event{Kind: EventSelection, State: c.sel.State()})
	c.publish(render.View{Kind: render.KindNone})
}

// SelectCategory switches tabs within the current room.
func (c *Controller) SelectCategory(category string) (Task, error) {
	if err := c.sel.SetCategory(category); err != nil {
		c.log.Error("select category", zap.String("category", category), zap.Error(err))
		return nil, err
	}
	c.resetTransient()
	c.emit(Event{Kind: EventSelection, State: c.sel.State()})
	return c.showActive(), nil
}

// SortBy cycles the sort of column on the active tabular category. It only
// re-renders; cached data keeps its fetch order.
func (c *Controller) SortBy(column string) error {
	cat, err := c.activeCategory()
	if err != nil {
		return err
	}
	if cat.Special {
		return errors.Errorf("%s is not a table", cat.ID)
	}
	known := false
	for _, col := range cat.Columns {
		known = known || col == column
	}
	if !known {
		return errors.Errorf("unknown column %q for %s", column, cat.ID)
	}
	c.sorts[cat.ID] = c.sorts[cat.ID].Cycle(column)
	c.renderActive()
	return nil
}

// SetEditing toggles edit mode of the active special form.
func (c *Controller) SetEditing(on bool) error {
	cat, err := c.activeCategory()
	if err != nil {
		return err
	}
	if !cat.Special {
		return errors.Errorf("%s has no form", cat.ID)
	}
	c.editing = on
	c.renderActive()
	return nil
}

// CloseHistory goes back from a history view to the active tab.
func (c *Controller) CloseHistory() Task {
	c.history = 0
	return c.showActive()
}

// resetTransient drops per-view state that must not follow a selection change.
func (c *Controller) resetTransient() {
	c.editing = false
	c.retry = nil
	c.history = 0
}

// Retry reissues the last failed read for the current selection.
func (c *Controller) Retry() Task {
	if c.retry != nil {
		r := c.retry
		c.retry = nil
		if c.view.Kind == render.KindError {
			c.publishPending()
		}
		return r()
	}
	if len(c.rooms) == 0 {
		return c.loadRooms()
	}
	return c.showActive()
}

func (c *Controller) activeCategory() (model.Category, error) {
	st := c.sel.State()
	cat, ok := c.cats.Get(st.Category)
	if !ok {
		return model.Category{}, errors.Wrap(model.ErrUnknownCategory, st.Category)
	}
	return cat, nil
}

func (c *Controller) haveOrLoading(roomID, category string) bool {
	if _, ok := c.cache.Get(roomID, category); ok {
		return true
	}
	return c.loadingFor(roomID, category)
}

func (c *Controller) loadingFor(roomID, category string) bool {
	if _, ok := c.inflight[cache.Key{RoomID: roomID, Category: category}]; ok {
		return true
	}
	_, ok := c.bulk[roomID]
	return ok
}

// showActive renders the active (room, category) from cache, or fetches it.
func (c *Controller) showActive() Task {
	st := c.sel.State()
	if !st.HasRoom() {
		c.publish(render.View{Kind: render.KindNone, Category: st.Category})
		return nil
	}
	if _, ok := c.cache.Get(st.RoomID, st.Category); ok {
		c.renderActive()
		return nil
	}
	c.publishPending()
	if c.loadingFor(st.RoomID, st.Category) {
		return nil
	}
	return c.fetch(st.RoomID, st.Category)
}

func (c *Controller) fetch(roomID, category string) Task {
	if c.prefetch == PrefetchRoom {
		return c.fetchRoom(roomID)
	}
	gw, pid := c.gw, c.projectID
	t := c.issue(roomID, category, true)
	c.inflight[cache.Key{RoomID: roomID, Category: category}] = t.seq
	return func(ctx context.Context) Result {
		data, err := gw.FetchCategoryData(ctx, pid, category, roomID)
		return categoryLoaded{t: t, data: data, err: err}
	}
}

func (c *Controller) fetchRoom(roomID string) Task {
	gw, pid := c.gw, c.projectID
	t := c.issue(roomID, "", true)
	t.gens = map[string]uint64{}
	for _, id := range c.cats.IDs() {
		t.gens[id] = c.cache.Generation(roomID, id)
	}
	c.bulk[roomID] = t.seq
	return func(ctx context.Context) Result {
		data, err := gw.FetchRoomData(ctx, pid, roomID)
		return roomDataLoaded{t: t, data: data, err: err}
	}
}

func (c *Controller) issue(roomID, category string, loading bool) ticket {
	c.seq++
	t := ticket{seq: c.seq, roomID: roomID, category: category, loading: loading}
	if roomID != "" && category != "" {
		t.gen = c.cache.Generation(roomID, category)
	}
	if loading {
		was := c.Loading()
		c.loading[t.seq] = true
		if !was {
			c.emit(Event{Kind: EventLoading, Loading: true})
		}
	}
	return t
}

// finish clears the loading indicator of t; it runs for every result, stale or not.
func (c *Controller) finish(t ticket) {
	if !c.loading[t.seq] {
		return
	}
	delete(c.loading, t.seq)
	if !c.Loading() {
		c.emit(Event{Kind: EventLoading, Loading: false})
	}
}

// current reports whether the selection still matches what t was issued for.
func (c *Controller) current(t ticket) bool {
	st := c.sel.State()
	if st.RoomID != t.roomID {
		return false
	}
	return t.category == "" || t.category == st.Category
}

func (c *Controller) publish(v render.View) {
	c.view = v
	c.emit(Event{Kind: EventView, View: v})
}

func (c *Controller) publishPending() {
	st := c.sel.State()
	c.publish(render.View{Kind: render.KindPending, RoomID: st.RoomID, RoomName: st.RoomName, Category: st.Category})
}

// historyOpen reports whether a history view is shown or loading. Tab data
// arriving meanwhile is cached but not rendered; CloseHistory renders it.
func (c *Controller) historyOpen() bool {
	return c.history != 0 || c.view.Kind == render.KindHistory
}

func (c *Controller) renderActive() {
	st := c.sel.State()
	if !st.HasRoom() {
		c.publish(render.View{Kind: render.KindNone, Category: st.Category})
		return
	}
	cat, ok := c.cats.Get(st.Category)
	if !ok {
		c.log.Error("render: unknown category", zap.String("category", st.Category))
		return
	}
	data, ok := c.cache.Get(st.RoomID, st.Category)
	if !ok {
		c.publishPending()
		return
	}
	v := render.View{RoomID: st.RoomID, RoomName: st.RoomName, Category: st.Category}
	if cat.Special {
		f := render.Form(cat, data, c.editing)
		v.Kind, v.Form = render.KindForm, &f
	} else {
		tv := render.Table(cat, data, c.sorts[cat.ID])
		v.Kind, v.Table = render.KindTable, &tv
	}
	c.publish(v)
}

// Apply folds a finished Task back into controller state and returns any
// follow-up work. Results issued for a selection that is no longer current are
// dropped without notice.
func (c *Controller) Apply(res Result) Task {
	if res == nil {
		return nil
	}
	t := res.ticket()
	c.finish(t)

	switch r := res.(type) {
	case roomsLoaded:
		return c.applyRooms(r)
	case categoryLoaded:
		return c.applyCategory(r)
	case roomDataLoaded:
		return c.applyRoomData(r)
	case mutationDone:
		return c.applyMutation(r)
	case historyLoaded:
		return c.applyHistory(r)
	}
	return nil
}

func (c *Controller) applyRooms(r roomsLoaded) Task {
	st := c.sel.State()
	if r.err != nil {
		c.log.Warn("load rooms", zap.Error(r.err))
		c.failRead(r.err, c.loadRooms)
		// The room list is only needed to verify the restored room; its data fetch
		// reports a deleted room on its own.
		if c.historyOpen() {
			return nil
		}
		return c.showActive()
	}
	c.rooms = r.rooms
	c.emit(Event{Kind: EventRooms, Rooms: r.rooms})

	if st.HasRoom() {
		if _, ok := model.FindRoom(r.rooms, st.RoomID); !ok {
			c.log.Info("restored room no longer exists", zap.String("room", st.RoomID))
			c.notifier.Notify(NoticeWarning, "Room \""+st.RoomName+"\" no longer exists")
			c.cache.InvalidateRoom(st.RoomID)
			c.ClearRoom()
			return nil
		}
	}
	if c.historyOpen() {
		return nil
	}
	return c.showActive()
}

func (c *Controller) applyCategory(r categoryLoaded) Task {
	key := cache.Key{RoomID: r.t.roomID, Category: r.t.category}
	if c.inflight[key] == r.t.seq {
		delete(c.inflight, key)
	}
	if !c.current(r.t) {
		c.log.Debug("discard stale result", zap.String("room", r.t.roomID), zap.String("category", r.t.category))
		return nil
	}
	if r.err != nil {
		roomID, category := r.t.roomID, r.t.category
		c.failRoomRead(r.err, func() Task { return c.fetch(roomID, category) })
		return nil
	}
	if c.cache.Generation(key.RoomID, key.Category) != r.t.gen {
		// Invalidated while in flight: the data predates a write. Fetch again.
		c.log.Debug("discard result from before invalidation", zap.String("room", key.RoomID), zap.String("category", key.Category))
		if c.historyOpen() {
			return nil
		}
		return c.showActive()
	}
	c.cache.Put(key.RoomID, key.Category, r.data)
	if !c.historyOpen() {
		c.renderActive()
	}
	return nil
}

func (c *Controller) applyRoomData(r roomDataLoaded) Task {
	if c.bulk[r.t.roomID] == r.t.seq {
		delete(c.bulk, r.t.roomID)
	}
	if !c.current(r.t) {
		c.log.Debug("discard stale room data", zap.String("room", r.t.roomID))
		return nil
	}
	if r.err != nil {
		roomID, category := r.t.roomID, c.sel.State().Category
		c.failRoomRead(r.err, func() Task { return c.fetch(roomID, category) })
		return nil
	}
	for cat, data := range r.data {
		if c.cache.Generation(r.t.roomID, cat) != r.t.gens[cat] {
			continue
		}
		c.cache.Put(r.t.roomID, cat, data)
	}
	if c.historyOpen() {
		return nil
	}
	return c.showActive()
}

// failRoomRead handles a failed read for the selected room. A 404 means the
// room was deleted on the server.
func (c *Controller) failRoomRead(err error, retry func() Task) {
	var re *model.RemoteError
	if errors.As(err, &re) && re.NotFound() {
		st := c.sel.State()
		c.log.Info("selected room not found on server", zap.String("room", st.RoomID))
		c.notifier.Notify(NoticeWarning, "Room \""+st.RoomName+"\" no longer exists")
		c.cache.InvalidateRoom(st.RoomID)
		c.dropRoom(st.RoomID)
		c.ClearRoom()
		return
	}
	c.failRead(err, retry)
	c.failView(err)
}

// failView replaces a pending view of the selection with an error view, so
// nothing keeps showing a load that is over.
func (c *Controller) failView(err error) {
	st := c.sel.State()
	if c.view.Kind != render.KindPending || c.view.RoomID != st.RoomID || c.view.Category != st.Category {
		return
	}
	c.publish(render.View{
		Kind:     render.KindError,
		RoomID:   st.RoomID,
		RoomName: st.RoomName,
		Category: st.Category,
		Error:    model.UserMessage(err),
	})
}

func (c *Controller) failRead(err error, retry func() Task) {
	c.log.Warn("read failed", zap.Error(err))
	c.retry = retry
	c.notifier.Notify(NoticeError, model.UserMessage(err))
}

func (c *Controller) dropRoom(roomID string) {
	out := make([]model.Room, 0, len(c.rooms))
	for _, r := range c.rooms {
		if r.ID != roomID {
			out = append(out, r)
		}
	}
	if len(out) != len(c.rooms) {
		c.rooms = out
		c.emit(Event{Kind: EventRooms, Rooms: out})
	}
}
