package controller

import "roomprog/internal/model"

// ticket records the selection a task was issued under.
type ticket struct {
	seq      uint64
	roomID   string
	category string // empty: room-wide
	gen      uint64
	gens     map[string]uint64
	loading  bool
}

type roomsLoaded struct {
	t     ticket
	rooms []model.Room
	err   error
}

type categoryLoaded struct {
	t    ticket
	data model.CategoryData
	err  error
}

type roomDataLoaded struct {
	t    ticket
	data map[string]model.CategoryData
	err  error
}

type mutationKind int

const (
	mutCreate mutationKind = iota
	mutUpdate
	mutDelete
	mutSaveSpecial
)

type mutationDone struct {
	t      ticket
	kind   mutationKind
	itemID string
	err    error
}

type historyLoaded struct {
	t        ticket
	category string // empty: whole room
	title    string
	entries  []model.HistoryEntry
	err      error
}

func (r roomsLoaded) ticket() ticket    { return r.t }
func (r categoryLoaded) ticket() ticket { return r.t }
func (r roomDataLoaded) ticket() ticket { return r.t }
func (r mutationDone) ticket() ticket   { return r.t }
func (r historyLoaded) ticket() ticket  { return r.t }
