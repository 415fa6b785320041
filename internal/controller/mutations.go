package controller

import (
	"context"

	"roomprog/internal/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// target resolves the selected room and active category for a write.
func (c *Controller) target(special bool) (string, model.Category, error) {
	st := c.sel.State()
	if !st.HasRoom() {
		return "", model.Category{}, model.ErrNoRoomSelected
	}
	cat, err := c.activeCategory()
	if err != nil {
		return "", model.Category{}, err
	}
	if cat.Special != special {
		if special {
			return "", model.Category{}, errors.Errorf("%s is a table; use item operations", cat.ID)
		}
		return "", model.Category{}, errors.Errorf("%s is a single record; use save", cat.ID)
	}
	return st.RoomID, cat, nil
}

// CreateItem adds a row to the active tabular category of the selected room.
func (c *Controller) CreateItem(fields map[string]any) (Task, error) {
	roomID, cat, err := c.target(false)
	if err != nil {
		return nil, err
	}
	t := c.issue(roomID, cat.ID, true)
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		id, err := gw.CreateItem(ctx, pid, cat.ID, roomID, fields)
		return mutationDone{t: t, kind: mutCreate, itemID: id, err: err}
	}, nil
}

// UpdateItem changes the named fields of one row.
func (c *Controller) UpdateItem(itemID string, fields map[string]any) (Task, error) {
	roomID, cat, err := c.target(false)
	if err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, errors.New("item id is required")
	}
	t := c.issue(roomID, cat.ID, true)
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		err := gw.UpdateItem(ctx, pid, cat.ID, itemID, fields)
		return mutationDone{t: t, kind: mutUpdate, itemID: itemID, err: err}
	}, nil
}

// DeleteItem removes one row. The cached row stays visible until the server confirms.
func (c *Controller) DeleteItem(itemID string) (Task, error) {
	roomID, cat, err := c.target(false)
	if err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, errors.New("item id is required")
	}
	t := c.issue(roomID, cat.ID, true)
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		err := gw.DeleteItem(ctx, pid, cat.ID, itemID)
		return mutationDone{t: t, kind: mutDelete, itemID: itemID, err: err}
	}, nil
}

// SaveSpecial upserts the selected room's record of the active special category.
func (c *Controller) SaveSpecial(fields map[string]any) (Task, error) {
	roomID, cat, err := c.target(true)
	if err != nil {
		return nil, err
	}
	t := c.issue(roomID, cat.ID, true)
	gw, pid := c.gw, c.projectID
	return func(ctx context.Context) Result {
		err := gw.UpdateSpecialRecord(ctx, pid, cat.ID, roomID, fields)
		return mutationDone{t: t, kind: mutSaveSpecial, err: err}
	}, nil
}

var mutationVerb = map[mutationKind]string{
	mutCreate:      "Item added",
	mutUpdate:      "Item updated",
	mutDelete:      "Item deleted",
	mutSaveSpecial: "Changes saved",
}

func (c *Controller) applyMutation(r mutationDone) Task {
	log := c.log.With(zap.String("room", r.t.roomID), zap.String("category", r.t.category), zap.String("item", r.itemID))
	if r.err != nil {
		log.Warn("mutation failed", zap.Error(r.err))
		// Validation messages are shown verbatim; the form stays as the user left it.
		c.notifier.Notify(NoticeError, model.UserMessage(r.err))
		return nil
	}

	// The server changed; the entry is stale whether or not it is still on screen.
	c.cache.Invalidate(r.t.roomID, r.t.category)
	log.Debug("mutation applied")
	c.notifier.Notify(NoticeSuccess, mutationVerb[r.kind])
	c.emit(Event{Kind: EventMutated, ItemID: r.itemID, State: c.sel.State()})

	if !c.current(r.t) {
		return nil
	}
	if r.kind == mutSaveSpecial {
		c.editing = false
	}
	c.history = 0
	return c.showActive()
}
