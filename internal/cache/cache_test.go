package cache

import (
	"testing"

	"roomprog/internal/model"

	"github.com/stretchr/testify/require"
)

func doors(room string, ids ...int) model.CategoryData {
	rows := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.Record{"doors_id": float64(id), "room_id": room})
	}
	return model.CategoryData{Category: "doors", RoomID: room, Rows: rows}
}

func TestCache_GetReturnsExactlyWhatWasPut(t *testing.T) {
	c := New()
	_, ok := c.Get("42", "doors")
	require.False(t, ok)

	d := doors("42", 7, 8)
	c.Put("42", "doors", d)
	got, ok := c.Get("42", "doors")
	require.True(t, ok)
	require.Equal(t, d, got)
	require.Same(t, &d.Rows[0], &got.Rows[0], "cache must not copy or transform rows")
}

func TestCache_InvalidateIsScopedToOneKey(t *testing.T) {
	c := New()
	c.Put("42", "doors", doors("42", 1))
	c.Put("42", "lighting", doors("42", 2))
	c.Put("43", "doors", doors("43", 3))

	before := c.Generation("42", "lighting")
	c.Invalidate("42", "doors")

	_, ok := c.Get("42", "doors")
	require.False(t, ok)
	_, ok = c.Get("42", "lighting")
	require.True(t, ok)
	_, ok = c.Get("43", "doors")
	require.True(t, ok)
	require.Equal(t, before, c.Generation("42", "lighting"))
}

func TestCache_GenerationChangesOnInvalidation(t *testing.T) {
	c := New()
	g0 := c.Generation("42", "doors")
	c.Invalidate("42", "doors")
	g1 := c.Generation("42", "doors")
	require.NotEqual(t, g0, g1)

	c.InvalidateRoom("42")
	require.NotEqual(t, g1, c.Generation("42", "doors"))
	require.NotEqual(t, g0, c.Generation("42", "never-cached"))
	require.Equal(t, uint64(0), c.Generation("43", "doors"))
}

func TestCache_InvalidateRoomAndClear(t *testing.T) {
	c := New()
	c.Put("42", "doors", doors("42", 1))
	c.Put("42", "lighting", doors("42", 2))
	c.Put("43", "doors", doors("43", 3))

	c.InvalidateRoom("42")
	require.Equal(t, 1, c.Len())

	c.Clear()
	require.Equal(t, 0, c.Len())
}

func TestCache_ClearRejectsFetchesForNeverCachedKeys(t *testing.T) {
	c := New()
	c.Put("42", "doors", doors("42", 1))
	before := c.Generation("43", "lighting")

	c.Clear()

	require.Equal(t, 0, c.Len())
	require.NotEqual(t, before, c.Generation("43", "lighting"))
	_, ok := c.Get("42", "doors")
	require.False(t, ok)
}
