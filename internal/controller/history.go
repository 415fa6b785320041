package controller

import (
	"context"

	"roomprog/internal/model"
	"roomprog/internal/render"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ShowHistory fetches the change log of category for the selected room.
// An empty category means the active tab.
func (c *Controller) ShowHistory(category string) (Task, error) {
	st := c.sel.State()
	if !st.HasRoom() {
		return nil, model.ErrNoRoomSelected
	}
	if category == "" {
		category = st.Category
	}
	cat, ok := c.cats.Get(category)
	if !ok {
		c.log.Error("history: unknown category", zap.String("category", category))
		return nil, errors.Wrap(model.ErrUnknownCategory, category)
	}
	return c.loadHistory(st.RoomID, cat.ID, cat.DisplayTitle()+" history"), nil
}

// ShowRoomHistory fetches the change log of every category of the selected room.
func (c *Controller) ShowRoomHistory() (Task, error) {
	st := c.sel.State()
	if !st.HasRoom() {
		return nil, model.ErrNoRoomSelected
	}
	return c.loadHistory(st.RoomID, "", "History of "+st.RoomName), nil
}

func (c *Controller) loadHistory(roomID, category, title string) Task {
	t := c.issue(roomID, "", true)
	c.history = t.seq
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		var entries []model.HistoryEntry
		var err error
		if category == "" {
			entries, err = gw.FetchRoomHistory(ctx, pid, roomID)
		} else {
			entries, err = gw.FetchHistory(ctx, pid, category, roomID)
		}
		return historyLoaded{t: t, category: category, title: title, entries: entries, err: err}
	}
}

func (c *Controller) applyHistory(r historyLoaded) Task {
	if r.t.seq != c.history || !c.current(r.t) {
		c.log.Debug("discard stale history", zap.String("room", r.t.roomID), zap.String("category", r.category))
		return nil
	}
	c.history = 0
	if r.err != nil {
		roomID, category, title := r.t.roomID, r.category, r.title
		c.failRead(r.err, func() Task { return c.loadHistory(roomID, category, title) })
		// A tab result may have landed while the history was loading.
		if c.view.Kind == render.KindPending {
			if _, ok := c.cache.Get(roomID, c.sel.State().Category); ok {
				c.renderActive()
			}
		}
		return nil
	}
	st := c.sel.State()
	hv := render.History(r.title, r.category, r.entries)
	c.publish(render.View{
		Kind:     render.KindHistory,
		RoomID:   st.RoomID,
		RoomName: st.RoomName,
		Category: st.Category,
		History:  &hv,
	})
	return nil
}
