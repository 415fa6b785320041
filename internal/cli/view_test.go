package cli

import (
	"strings"
	"testing"

	"roomprog/internal/glyph"
	"roomprog/internal/render"
	"roomprog/internal/session"
)

func TestViewText_SortMarksFollowGlyphSet(t *testing.T) {
	defer glyph.Use(glyph.Unicode)
	v := render.View{Kind: render.KindTable, Table: &render.TableView{
		Title:   "Doors",
		Columns: []render.Column{{Key: "number", Title: "Number", Sort: "asc"}, {Key: "quantity", Title: "Quantity"}},
		Rows:    []render.Row{{ID: "7", Cells: []string{"D-1", "2"}}},
	}}
	st := session.State{RoomID: "42", RoomName: "Lab-204", Category: "doors"}

	var b strings.Builder
	if err := newViewResult(st, v).WriteText(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Number ▲") {
		t.Fatalf("expected unicode sort mark:\n%s", b.String())
	}

	glyph.Use(glyph.ASCII)
	b.Reset()
	if err := newViewResult(st, v).WriteText(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Number ^") || strings.Contains(b.String(), "▲") {
		t.Fatalf("expected ascii sort mark:\n%s", b.String())
	}
}

func TestViewText_ErrorView(t *testing.T) {
	v := render.View{Kind: render.KindError, RoomID: "42", Category: "doors", Error: "server error 503: down"}
	var b strings.Builder
	if err := newViewResult(session.State{RoomID: "42", RoomName: "Lab-204", Category: "doors"}, v).WriteText(&b); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "Loading") || !strings.Contains(b.String(), "server error 503: down") {
		t.Fatalf("unexpected text:\n%s", b.String())
	}
}
