package store

import (
	"context"
	"testing"
	"time"
)

func TestSQLiteKV_ValuesSurviveReopenWithinSession(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := OpenSQLiteKV(ctx, dir, "sess-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set("selectedRoom", "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = kv.Close()

	kv, err = OpenSQLiteKV(ctx, dir, "sess-a")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	v, ok, err := kv.Get("selectedRoom")
	if err != nil || !ok || v != "42" {
		t.Fatalf("expected 42 after reopen, got %q ok=%v err=%v", v, ok, err)
	}

	other, err := OpenSQLiteKV(ctx, dir, "sess-b")
	if err != nil {
		t.Fatalf("open other: %v", err)
	}
	defer other.Close()
	if _, ok, _ := other.Get("selectedRoom"); ok {
		t.Fatalf("expected a new session to start empty")
	}
}

func TestSQLiteKV_RemoveAndPrune(t *testing.T) {
	kv, err := OpenSQLiteKV(context.Background(), t.TempDir(), "s")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()

	_ = kv.Set("a", "1")
	_ = kv.Set("b", "2")
	if err := kv.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := kv.Get("a"); ok {
		t.Fatalf("expected a removed")
	}

	kv.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err := kv.PruneOlderThan(24 * time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 pruned row, got %d err=%v", n, err)
	}
	if _, ok, _ := kv.Get("b"); ok {
		t.Fatalf("expected b pruned")
	}
}

func TestOpenSQLiteKV_RequiresSession(t *testing.T) {
	if _, err := OpenSQLiteKV(context.Background(), t.TempDir(), "  "); err == nil {
		t.Fatalf("expected error for empty session")
	}
}

func TestMemKV(t *testing.T) {
	kv := NewMemKV()
	_ = kv.Set("k", "v")
	if v, ok, _ := kv.Get("k"); !ok || v != "v" {
		t.Fatalf("unexpected get: %q %v", v, ok)
	}
	_ = kv.Remove("k")
	if _, ok, _ := kv.Get("k"); ok {
		t.Fatalf("expected removed")
	}
}
