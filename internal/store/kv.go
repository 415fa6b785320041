package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the durable key-value surface used to persist the selection.
// Implementations are scoped to one client session.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// MemKV keeps values in memory. Values survive a controller restart inside the
// same process, which is what tests use to simulate a reload.
type MemKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemKV() *MemKV { return &MemKV{m: map[string]string{}} }

func (kv *MemKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *MemKV) Remove(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

// StateDir is where client-local state lives (~/.roomprog).
func StateDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.roomprog).
	if v := strings.TrimSpace(os.Getenv("ROOMPROG_STATE_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".roomprog"), nil
}
