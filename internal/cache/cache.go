// Package cache holds per-room, per-category data fetched from the backend.
//
// There is no expiry: entries stay valid until the controller invalidates them
// after a confirmed write.
package cache

import (
	"sync"

	"roomprog/internal/model"
)

type Key struct {
	RoomID   string
	Category string
}

type Cache struct {
	mu      sync.RWMutex
	entries map[Key]model.CategoryData
	// gens survive invalidation so results fetched before a write can be told apart.
	gens map[Key]uint64
	// epoch is bumped by Clear and counts toward every generation.
	epoch uint64
}

func New() *Cache {
	return &Cache{
		entries: map[Key]model.CategoryData{},
		gens:    map[Key]uint64{},
	}
}

func (c *Cache) Get(roomID, category string) (model.CategoryData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[Key{roomID, category}]
	return d, ok
}

func (c *Cache) Put(roomID, category string, data model.CategoryData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key{roomID, category}] = data
}

func (c *Cache) Invalidate(roomID, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := Key{roomID, category}
	delete(c.entries, k)
	c.gens[k]++
}

func (c *Cache) InvalidateRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.RoomID == roomID {
			delete(c.entries, k)
		}
	}
	for k := range c.gens {
		if k.RoomID == roomID {
			c.gens[k]++
		}
	}
	// Keys never cached still need a bump so in-flight fetches for the room are rejected.
	c.gens[Key{RoomID: roomID}]++
}

// Clear drops every entry and rejects every fetch still in flight.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[Key]model.CategoryData{}
	c.epoch++
}

// Generation identifies the current validity epoch of a key. A result fetched
// under an older generation must not be stored.
func (c *Cache) Generation(roomID, category string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[Key{roomID, category}] + c.gens[Key{RoomID: roomID}] + c.epoch
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
