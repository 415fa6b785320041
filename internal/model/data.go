package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one row (or the single special record) as sent by the backend.
type Record map[string]any

// Text formats the value stored under key for display.
func (r Record) Text(key string) string {
	return FormatValue(r[key])
}

// ID returns the row identifier stored under field.
func (r Record) ID(field string) string {
	return r.Text(field)
}

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CategoryData is an immutable snapshot of one category for one room.
// Special categories hold at most one row.
type CategoryData struct {
	Category string   `json:"category"`
	RoomID   string   `json:"roomId"`
	Special  bool     `json:"special,omitempty"`
	Rows     []Record `json:"rows"`
}

// Record returns the special record, if the room has one.
func (d CategoryData) Record() (Record, bool) {
	if len(d.Rows) == 0 {
		return nil, false
	}
	return d.Rows[0], true
}

func NewCategoryData(cat Category, roomID string, rows []Record) CategoryData {
	if rows == nil {
		rows = []Record{}
	}
	if cat.Special && len(rows) > 1 {
		rows = rows[:1]
	}
	return CategoryData{Category: cat.ID, RoomID: roomID, Special: cat.Special, Rows: rows}
}

type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	UserName   string    `json:"userName"`
	ActionType string    `json:"actionType"`
	Details    string    `json:"details"`
}

func (h HistoryEntry) User() string {
	if s := strings.TrimSpace(h.UserName); s != "" {
		return s
	}
	return "System"
}

func (h HistoryEntry) Action() string {
	if s := strings.TrimSpace(h.ActionType); s != "" {
		return s
	}
	return "Modification"
}

// FormatValue renders a decoded JSON value as a table cell.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			parts = append(parts, FormatValue(x))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
