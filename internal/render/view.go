// Package render turns cached category data into view descriptions.
// Nothing here talks to the network or mutates its inputs.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"roomprog/internal/model"

	"golang.org/x/text/cases"
)

type Kind int

const (
	KindNone Kind = iota
	KindTable
	KindForm
	KindHistory
	// KindPending is shown while the active tab of a newly selected room loads.
	KindPending
	// KindError replaces a pending view whose fetch failed; retry loads it again.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindForm:
		return "form"
	case KindHistory:
		return "history"
	case KindPending:
		return "pending"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// View is what the controller publishes to listeners.
type View struct {
	Kind     Kind         `json:"-"`
	RoomID   string       `json:"roomId,omitempty"`
	RoomName string       `json:"roomName,omitempty"`
	Category string       `json:"category,omitempty"`
	Table    *TableView   `json:"table,omitempty"`
	Form     *FormView    `json:"form,omitempty"`
	History  *HistoryView `json:"history,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type Column struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Sort  string `json:"sort"`
}

type Row struct {
	ID      string   `json:"id"`
	Cells   []string `json:"cells"`
	Actions []string `json:"actions"`
}

type TableView struct {
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
	Empty    bool     `json:"empty"`
}

type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Options  []string `json:"options,omitempty"`
	Disabled bool     `json:"disabled"`
}

type FormView struct {
	Category string  `json:"category"`
	Title    string  `json:"title"`
	Fields   []Field `json:"fields"`
	// Missing means the room has no record for this category yet.
	Missing bool `json:"missing"`
	Editing bool `json:"editing"`
}

type HistoryRow struct {
	When    string `json:"when"`
	User    string `json:"user"`
	Action  string `json:"action"`
	Details string `json:"details"`
}

type HistoryView struct {
	Category  string       `json:"category,omitempty"`
	Title     string       `json:"title"`
	Entries   []HistoryRow `json:"entries"`
	NoHistory bool         `json:"noHistory"`
}

// Row actions offered on tabular categories.
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Table lays out a tabular category in display order.
func Table(cat model.Category, data model.CategoryData, s Sort) TableView {
	tv := TableView{
		Category: cat.ID,
		Title:    cat.DisplayTitle(),
		Columns:  make([]Column, 0, len(cat.Columns)),
		Rows:     make([]Row, 0, len(data.Rows)),
	}
	for _, key := range cat.Columns {
		tv.Columns = append(tv.Columns, Column{Key: key, Title: cat.ColumnTitle(key), Sort: s.For(key).String()})
	}
	idField := cat.IdentifierField()
	for _, i := range Order(data.Rows, s) {
		rec := data.Rows[i]
		cells := make([]string, 0, len(cat.Columns))
		for _, key := range cat.Columns {
			cells = append(cells, rec.Text(key))
		}
		tv.Rows = append(tv.Rows, Row{
			ID:      rec.ID(idField),
			Cells:   cells,
			Actions: []string{ActionEdit, ActionDelete},
		})
	}
	tv.Empty = len(tv.Rows) == 0
	return tv
}

// Form lays out a special category. Fields are read-only unless editing.
func Form(cat model.Category, data model.CategoryData, editing bool) FormView {
	fv := FormView{Category: cat.ID, Title: cat.DisplayTitle(), Editing: editing}
	rec, ok := data.Record()
	fv.Missing = !ok

	seen := map[string]bool{cat.IdentifierField(): true, "room_id": true, "room_name": true}
	add := func(key string) {
		seen[key] = true
		fv.Fields = append(fv.Fields, Field{
			Key:      key,
			Label:    cat.ColumnTitle(key),
			Value:    rec.Text(key),
			Options:  cat.Options[key],
			Disabled: !editing,
		})
	}
	for _, key := range cat.Columns {
		add(key)
	}
	for _, key := range rec.Keys() {
		if !seen[key] {
			add(key)
		}
	}
	return fv
}

func History(title, category string, entries []model.HistoryEntry) HistoryView {
	hv := HistoryView{Category: category, Title: title, Entries: make([]HistoryRow, 0, len(entries))}
	for _, e := range entries {
		hv.Entries = append(hv.Entries, HistoryRow{
			When:    formatWhen(e.Timestamp),
			User:    e.User(),
			Action:  e.Action(),
			Details: strings.TrimSpace(e.Details),
		})
	}
	hv.NoHistory = len(hv.Entries) == 0
	return hv
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

type SectorGroup struct {
	Name  string       `json:"name"`
	Rooms []model.Room `json:"rooms"`
}

type UnitGroup struct {
	Name    string        `json:"name"`
	Sectors []SectorGroup `json:"sectors"`
}

// RoomTree groups rooms by functional unit, then sector, sorted by name.
func RoomTree(rooms []model.Room) []UnitGroup {
	fold := cases.Fold()
	less := func(a, b string) bool { return fold.String(a) < fold.String(b) }

	units := map[string]map[string][]model.Room{}
	for _, r := range rooms {
		u := orDefault(r.FunctionalUnit.String(), "Unknown unit")
		s := orDefault(r.Sector.String(), "Unknown sector")
		if units[u] == nil {
			units[u] = map[string][]model.Room{}
		}
		units[u][s] = append(units[u][s], r)
	}

	var out []UnitGroup
	for u, sectors := range units {
		g := UnitGroup{Name: u}
		for s, rs := range sectors {
			sort.SliceStable(rs, func(i, j int) bool { return less(rs[i].DisplayName(), rs[j].DisplayName()) })
			g.Sectors = append(g.Sectors, SectorGroup{Name: s, Rooms: rs})
		}
		sort.Slice(g.Sectors, func(i, j int) bool { return less(g.Sectors[i].Name, g.Sectors[j].Name) })
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	return out
}

type RoomInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Unit          string `json:"unit"`
	Area          string `json:"area"`
	ProgramNumber string `json:"programNumber"`
}

func RoomPanel(r model.Room) RoomInfo {
	return RoomInfo{
		ID:            r.ID,
		Name:          r.DisplayName(),
		Sector:        orDefault(r.Sector.String(), "-"),
		Unit:          orDefault(r.FunctionalUnit.String(), "-"),
		Area:          formatArea(r.PlannedArea.String()),
		ProgramNumber: orDefault(r.ProgramNumber.String(), "-"),
	}
}

func formatArea(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	if f, ok := parseNumber(s); ok {
		return fmt.Sprintf("%.2f m²", f)
	}
	return s
}

func orDefault(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return strings.TrimSpace(s)
}
