package tui

import (
	"strings"
	"testing"

	"roomprog/internal/render"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_PadsAndTruncates(t *testing.T) {
	out := normalizePane("short\n"+strings.Repeat("x", 30), 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d: expected width 10, got %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on the long line, got %q", lines[1])
	}
}

func TestWindow_KeepsCursorVisible(t *testing.T) {
	cases := []struct {
		n, cursor, height int
		start, end        int
	}{
		{n: 5, cursor: 4, height: 10, start: 0, end: 5},
		{n: 100, cursor: 0, height: 10, start: 0, end: 10},
		{n: 100, cursor: 50, height: 10, start: 45, end: 55},
		{n: 100, cursor: 99, height: 10, start: 90, end: 100},
	}
	for _, tc := range cases {
		start, end := window(tc.n, tc.cursor, tc.height)
		if start != tc.start || end != tc.end {
			t.Fatalf("window(%d,%d,%d) = %d,%d; want %d,%d", tc.n, tc.cursor, tc.height, start, end, tc.start, tc.end)
		}
	}
}

func TestPaneWidths_Clamped(t *testing.T) {
	if l, r := paneWidths(60); l != roomPaneMinW || r != 60-roomPaneMinW {
		t.Fatalf("narrow terminal: got %d,%d", l, r)
	}
	if l, _ := paneWidths(400); l != roomPaneMaxW {
		t.Fatalf("wide terminal: got %d", l)
	}
}

func TestDarkFromColorFGBG(t *testing.T) {
	if dark, ok := darkFromColorFGBG("15;0"); !ok || !dark {
		t.Fatalf("expected dark for bg 0")
	}
	if dark, ok := darkFromColorFGBG("0;default;15"); !ok || dark {
		t.Fatalf("expected light for bg 15")
	}
	if _, ok := darkFromColorFGBG("nonsense"); ok {
		t.Fatalf("expected unknown value to be ignored")
	}
}

func TestHistoryMarkdown(t *testing.T) {
	md := historyMarkdown(render.HistoryView{
		Title:   "Doors history",
		Entries: []render.HistoryRow{{When: "2025-03-01 09:30", User: "tester", Action: "create", Details: "a|b"}},
	})
	if !strings.Contains(md, "## Doors history") || !strings.Contains(md, `a\|b`) {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	empty := historyMarkdown(render.HistoryView{Title: "Empty", NoHistory: true})
	if !strings.Contains(empty, "No history") {
		t.Fatalf("expected empty marker:\n%s", empty)
	}
}
