package controller

import (
	"context"

	"roomprog/internal/model"
	"roomprog/internal/render"
	"roomprog/internal/session"
)

// Gateway is the subset of the backend client the controller drives.
type Gateway interface {
	FetchRooms(ctx context.Context, projectID string) ([]model.Room, error)
	FetchRoomData(ctx context.Context, projectID, roomID string) (map[string]model.CategoryData, error)
	FetchCategoryData(ctx context.Context, projectID, category, roomID string) (model.CategoryData, error)
	CreateItem(ctx context.Context, projectID, category, roomID string, fields map[string]any) (string, error)
	UpdateItem(ctx context.Context, projectID, category, itemID string, fields map[string]any) error
	DeleteItem(ctx context.Context, projectID, category, itemID string) error
	UpdateSpecialRecord(ctx context.Context, projectID, category, roomID string, fields map[string]any) error
	FetchHistory(ctx context.Context, projectID, category, roomID string) ([]model.HistoryEntry, error)
	FetchRoomHistory(ctx context.Context, projectID, roomID string) ([]model.HistoryEntry, error)
}

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notifier is the toast/alert surface. The controller never renders messages itself.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

type NotifierFunc func(kind NoticeKind, message string)

func (f NotifierFunc) Notify(kind NoticeKind, message string) { f(kind, message) }

type EventKind int

const (
	EventView EventKind = iota
	EventLoading
	EventSelection
	EventRooms
	// EventMutated follows a confirmed write; ItemID is set for row writes.
	EventMutated
)

type Event struct {
	Kind    EventKind
	View    render.View
	Loading bool
	State   session.State
	Rooms   []model.Room
	ItemID  string
}

type Listener func(Event)

// Task is network work issued by the controller. Hosts run it off the UI loop
// and hand the Result back to Apply on the loop.
type Task func(ctx context.Context) Result

// Result is the completion of a Task. Its contents are private to the controller.
type Result interface {
	ticket() ticket
}

// Prefetch selects how a cache miss is filled.
type Prefetch int

const (
	// PrefetchCategory fetches only the missing (room, category) pair.
	PrefetchCategory Prefetch = iota
	// PrefetchRoom fetches every category of the selected room in one round trip.
	PrefetchRoom
)

func ParsePrefetch(s string) (Prefetch, bool) {
	switch s {
	case "", "category", "tab":
		return PrefetchCategory, true
	case "room", "bulk":
		return PrefetchRoom, true
	}
	return PrefetchCategory, false
}
