package render

import (
	"encoding/json"
	"testing"
	"time"

	"roomprog/internal/model"
)

var doorsCat = model.Category{ID: "doors", Title: "Doors", Columns: []string{"room_id", "category", "number", "quantity"}}

func TestTable_SingleDoorRow(t *testing.T) {
	data := model.NewCategoryData(doorsCat, "42", []model.Record{{
		"doors_id": json.Number("7"), "room_id": "42", "category": "standard", "number": "D-1", "quantity": "2",
	}})
	tv := Table(doorsCat, data, Sort{})
	if tv.Empty || len(tv.Rows) != 1 {
		t.Fatalf("expected one row, got %+v", tv)
	}
	r := tv.Rows[0]
	if r.ID != "7" {
		t.Fatalf("unexpected row id %q", r.ID)
	}
	want := []string{"42", "standard", "D-1", "2"}
	for i, w := range want {
		if r.Cells[i] != w {
			t.Fatalf("cell %d: expected %q, got %q", i, w, r.Cells[i])
		}
	}
	if len(r.Actions) != 2 || r.Actions[0] != ActionEdit || r.Actions[1] != ActionDelete {
		t.Fatalf("unexpected actions: %v", r.Actions)
	}
	if tv.Columns[3].Title != "Quantity" || tv.Columns[3].Sort != "none" {
		t.Fatalf("unexpected column: %+v", tv.Columns[3])
	}
}

func TestTable_EmptyAndSortedHeader(t *testing.T) {
	tv := Table(doorsCat, model.NewCategoryData(doorsCat, "42", nil), Sort{"number", Descending})
	if !tv.Empty || len(tv.Rows) != 0 {
		t.Fatalf("expected empty table")
	}
	if tv.Columns[2].Sort != "desc" {
		t.Fatalf("expected header to carry sort direction, got %+v", tv.Columns[2])
	}
}

func TestForm_DisabledUnlessEditingAndMissingState(t *testing.T) {
	cat := model.Category{
		ID: "functionality", Special: true,
		Columns: []string{"functionality_schedule", "functionality_description"},
		Options: map[string][]string{"functionality_schedule": {"day", "night"}},
	}
	missing := Form(cat, model.NewCategoryData(cat, "42", nil), false)
	if !missing.Missing || len(missing.Fields) != 2 || !missing.Fields[0].Disabled {
		t.Fatalf("unexpected missing form: %+v", missing)
	}

	data := model.NewCategoryData(cat, "42", []model.Record{{
		"functionality_id": 3, "room_id": "42", "functionality_schedule": "day", "functionality_extra": "x",
	}})
	fv := Form(cat, data, true)
	if fv.Missing || len(fv.Fields) != 3 {
		t.Fatalf("unexpected form: %+v", fv)
	}
	if fv.Fields[0].Value != "day" || fv.Fields[0].Disabled || len(fv.Fields[0].Options) != 2 {
		t.Fatalf("unexpected first field: %+v", fv.Fields[0])
	}
	if fv.Fields[2].Key != "functionality_extra" {
		t.Fatalf("expected extra record fields after configured columns, got %+v", fv.Fields[2])
	}
}

func TestHistory_EmptyIsNoHistoryState(t *testing.T) {
	hv := History("Doors", "doors", []model.HistoryEntry{})
	if !hv.NoHistory || len(hv.Entries) != 0 {
		t.Fatalf("expected no-history state, got %+v", hv)
	}

	hv = History("Doors", "doors", []model.HistoryEntry{{Timestamp: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}})
	if hv.NoHistory || hv.Entries[0].User != "System" || hv.Entries[0].Action != "Modification" || hv.Entries[0].When != "2025-03-01 09:30" {
		t.Fatalf("unexpected history rows: %+v", hv.Entries)
	}
}

func TestRoomTree_GroupsByUnitAndSector(t *testing.T) {
	tree := RoomTree([]model.Room{
		{ID: "3", Name: "b-room", FunctionalUnit: "Research", Sector: "B"},
		{ID: "1", Name: "A-room", FunctionalUnit: "Research", Sector: "B"},
		{ID: "2", Name: "Lobby", FunctionalUnit: "Admin"},
	})
	if len(tree) != 2 || tree[0].Name != "Admin" || tree[1].Name != "Research" {
		t.Fatalf("unexpected units: %+v", tree)
	}
	if tree[0].Sectors[0].Name != "Unknown sector" {
		t.Fatalf("expected default sector name, got %q", tree[0].Sectors[0].Name)
	}
	rs := tree[1].Sectors[0].Rooms
	if len(rs) != 2 || rs[0].ID != "1" || rs[1].ID != "3" {
		t.Fatalf("expected rooms sorted by name, got %+v", rs)
	}
}

func TestRoomPanel_FormatsArea(t *testing.T) {
	info := RoomPanel(model.Room{ID: "42", Name: "Lab-204", PlannedArea: "12.5"})
	if info.Area != "12.50 m²" || info.Sector != "-" {
		t.Fatalf("unexpected panel: %+v", info)
	}
	if RoomPanel(model.Room{PlannedArea: "tbd"}).Area != "tbd" {
		t.Fatalf("non-numeric area must be shown as-is")
	}
}
