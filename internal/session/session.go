// Package session is the single source of truth for what is selected right now.
package session

import (
	"strings"

	"roomprog/internal/catalog"
	"roomprog/internal/model"
	"roomprog/internal/store"

	"github.com/pkg/errors"
)

// Persistence keys. They match the names the web client used for sessionStorage.
const (
	keyRoomID   = "selectedRoom"
	keyRoomName = "selectedRoomName"
	keyCategory = "activeTab"
)

type State struct {
	RoomID   string `json:"roomId,omitempty"`
	RoomName string `json:"roomName,omitempty"`
	Category string `json:"category"`
}

func (s State) HasRoom() bool { return s.RoomID != "" }

type Store struct {
	kv    store.KV
	cats  *catalog.Catalog
	state State
}

func New(kv store.KV, cats *catalog.Catalog) *Store {
	return &Store{
		kv:    kv,
		cats:  cats,
		state: State{Category: cats.First().ID},
	}
}

func (s *Store) State() State { return s.state }

// SetRoom sets the room id and name together. Both empty clears the room.
func (s *Store) SetRoom(roomID, roomName string) error {
	roomID = strings.TrimSpace(roomID)
	roomName = strings.TrimSpace(roomName)
	if roomID == "" && roomName == "" {
		return s.ClearRoom()
	}
	if roomID == "" || roomName == "" {
		return errors.Wrapf(model.ErrInvalidSelection, "id=%q name=%q", roomID, roomName)
	}
	if err := s.kv.Set(keyRoomID, roomID); err != nil {
		return err
	}
	if err := s.kv.Set(keyRoomName, roomName); err != nil {
		// Never leave a persisted id without its name.
		_ = s.kv.Remove(keyRoomID)
		return err
	}
	s.state.RoomID = roomID
	s.state.RoomName = roomName
	return nil
}

func (s *Store) ClearRoom() error {
	s.state.RoomID = ""
	s.state.RoomName = ""
	if err := s.kv.Remove(keyRoomID); err != nil {
		return err
	}
	return s.kv.Remove(keyRoomName)
}

func (s *Store) SetCategory(category string) error {
	category = strings.TrimSpace(category)
	if !s.cats.Has(category) {
		return errors.Wrap(model.ErrUnknownCategory, category)
	}
	if err := s.kv.Set(keyCategory, category); err != nil {
		return err
	}
	s.state.Category = category
	return nil
}

// Restore loads the persisted selection. Half-persisted rooms and categories
// that are no longer configured are dropped. Whether the room still exists on
// the server is for the caller to check.
func (s *Store) Restore() (State, error) {
	st := State{Category: s.cats.First().ID}

	id, okID, err := s.kv.Get(keyRoomID)
	if err != nil {
		return s.state, err
	}
	name, okName, err := s.kv.Get(keyRoomName)
	if err != nil {
		return s.state, err
	}
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if okID && okName && id != "" && name != "" {
		st.RoomID, st.RoomName = id, name
	} else if okID || okName {
		_ = s.kv.Remove(keyRoomID)
		_ = s.kv.Remove(keyRoomName)
	}

	if cat, ok, err := s.kv.Get(keyCategory); err != nil {
		return s.state, err
	} else if ok && s.cats.Has(cat) {
		st.Category = strings.TrimSpace(cat)
	}

	s.state = st
	return st, nil
}
