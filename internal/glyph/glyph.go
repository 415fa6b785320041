// Package glyph picks Unicode or ASCII marks for sort order, the current
// room and breadcrumbs, for terminals whose fonts render some glyphs poorly.
package glyph

import (
	"os"
	"strings"
	"sync"
)

type Set int

const (
	Unicode Set = iota
	ASCII
)

var (
	mu      sync.RWMutex
	current = Unicode
)

// ApplyPreference reads ROOMPROG_TUI_GLYPHS. Unknown values keep the current set.
func ApplyPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ROOMPROG_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		Use(Unicode)
	case "ascii":
		Use(ASCII)
	}
}

func Use(s Set) {
	mu.Lock()
	current = s
	mu.Unlock()
}

func active() Set {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Sort returns the header suffix for a column sorted in dir ("asc" or "desc").
func Sort(dir string) string {
	ascii := active() == ASCII
	switch dir {
	case "asc":
		if ascii {
			return " ^"
		}
		return " ▲"
	case "desc":
		if ascii {
			return " v"
		}
		return " ▼"
	}
	return ""
}

func Current() string {
	if active() == ASCII {
		return "*"
	}
	return "●"
}

func Separator() string {
	if active() == ASCII {
		return " / "
	}
	return " › "
}
