package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roomprog/internal/apitest"
	"roomprog/internal/catalog"
	"roomprog/internal/model"
)

type testEnv struct {
	backend *apitest.Backend
	base    []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	var special []string
	for _, c := range catalog.Default().All() {
		if c.Special {
			special = append(special, c.ID)
		}
	}
	b := apitest.New(special...)
	b.AddRoom(model.Room{ID: "42", Name: "Lab-204", Sector: "B", FunctionalUnit: "Research", PlannedArea: "12.5"})
	b.AddRoom(model.Room{ID: "43", Name: "Office-1", Sector: "A", FunctionalUnit: "Admin"})
	srv := b.Start(t)
	return &testEnv{
		backend: b,
		base:    []string{"--api-url", srv.URL, "--project", "p1", "--session", "test", "--state-dir", t.TempDir()},
	}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func (e *testEnv) mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, append(append([]string{}, e.base...), args...))
	if err != nil {
		t.Fatalf("command failed: roomprog %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data key; got %v", env)
	}
	return env
}

func (e *testEnv) mustFail(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, append(append([]string{}, e.base...), args...))
	if err == nil {
		t.Fatalf("expected roomprog %v to fail; stdout:\n%s", args, stdout)
	}
	return string(stderr)
}

func data(env map[string]any) map[string]any {
	m, _ := env["data"].(map[string]any)
	return m
}

func tableRows(t *testing.T, view map[string]any) []any {
	t.Helper()
	tbl, ok := view["table"].(map[string]any)
	if !ok {
		t.Fatalf("expected table view, got %v", view)
	}
	rows, _ := tbl["rows"].([]any)
	return rows
}

func TestCLI_RoomsTree(t *testing.T) {
	e := newTestEnv(t)
	env := e.mustRun(t, "rooms")
	units, ok := env["data"].([]any)
	if !ok || len(units) != 2 {
		t.Fatalf("expected two units, got %#v", env["data"])
	}
	if name := units[0].(map[string]any)["name"]; name != "Admin" {
		t.Fatalf("expected units sorted by name, first=%v", name)
	}
}

func TestCLI_SelectAddAndReload(t *testing.T) {
	e := newTestEnv(t)

	v := data(e.mustRun(t, "select", "42"))
	if v["kind"] != "form" || v["roomName"] != "Lab-204" {
		t.Fatalf("expected first (special) tab for Lab-204, got %v", v)
	}

	v = data(e.mustRun(t, "tab", "doors"))
	if v["kind"] != "table" || len(tableRows(t, v)) != 0 {
		t.Fatalf("expected empty doors table, got %v", v)
	}

	res := data(e.mustRun(t, "items", "add", "--field", "doors_number=D-1", "--field", "doors_quantity=2"))
	if res["itemId"] != "101" {
		t.Fatalf("expected item id 101, got %v", res["itemId"])
	}
	rows := tableRows(t, res["view"].(map[string]any))
	if len(rows) != 1 {
		t.Fatalf("expected created row in refreshed view, got %v", rows)
	}

	// A new invocation restores room and tab from the session store.
	v = data(e.mustRun(t, "show"))
	if v["category"] != "doors" || len(tableRows(t, v)) != 1 {
		t.Fatalf("selection not restored: %v", v)
	}
	cells := tableRows(t, v)[0].(map[string]any)["cells"].([]any)
	if cells[1] != "D-1" || cells[3] != "2" {
		t.Fatalf("unexpected cells %v", cells)
	}
}

func TestCLI_SelectUnknownRoom(t *testing.T) {
	e := newTestEnv(t)
	if stderr := e.mustFail(t, "select", "99"); !strings.Contains(stderr, "room not found: 99") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestCLI_DeleteMissingItem(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	stderr := e.mustFail(t, "items", "delete", "999", "--category", "doors")
	if !strings.Contains(stderr, "item not found") {
		t.Fatalf("expected server message, got %q", stderr)
	}
}

func TestCLI_ItemsOnFormTabFails(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	if stderr := e.mustFail(t, "items", "add", "--field", "x=1"); !strings.Contains(stderr, "single record") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestCLI_SpecialSave(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	res := data(e.mustRun(t, "special", "save", "--field", "functionality_occupants_number=4"))
	form := res["view"].(map[string]any)["form"].(map[string]any)
	if form["missing"] != false || form["editing"] != false {
		t.Fatalf("unexpected form state %v", form)
	}
	fields := form["fields"].([]any)
	if v := fields[0].(map[string]any)["value"]; v != "4" {
		t.Fatalf("expected saved value, got %v", v)
	}
}

func TestCLI_EmptyHistory(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	v := data(e.mustRun(t, "history", "--category", "doors"))
	h := v["history"].(map[string]any)
	if v["kind"] != "history" || h["noHistory"] != true {
		t.Fatalf("expected no-history view, got %v", v)
	}
}

func TestCLI_DeletedRoomIsCleared(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	e.backend.RemoveRoom("42")

	env := e.mustRun(t, "show")
	if v := data(env); v["kind"] != "none" {
		t.Fatalf("expected cleared selection, got %v", v)
	}
	notices, _ := env["notices"].([]any)
	if len(notices) == 0 || notices[0].(map[string]any)["kind"] != "warning" {
		t.Fatalf("expected warning notice, got %v", env["notices"])
	}
}

func TestCLI_SessionClearAndTextFormat(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	e.mustRun(t, "session", "clear")

	stdout, stderr, err := runCLI(t, append(append([]string{}, e.base...), "--format", "text", "show"))
	if err != nil {
		t.Fatalf("show failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "No room selected") {
		t.Fatalf("unexpected text output:\n%s", stdout)
	}
}

func TestCLI_Export(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	out := filepath.Join(t.TempDir(), "exports", "lab.xlsx")
	res := data(e.mustRun(t, "export", "--out", out))
	if res["path"] != out {
		t.Fatalf("unexpected export result %v", res)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestCLI_ExportReusesBulkPrefetch(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "select", "42")
	bulk := "/workspace/api/projects/p1/room_data/42"
	before := e.backend.Hits(http.MethodGet, bulk)

	e.mustRun(t, "--prefetch", "room", "export", "--out", filepath.Join(t.TempDir(), "lab.xlsx"))

	if got := e.backend.Hits(http.MethodGet, bulk) - before; got != 1 {
		t.Fatalf("expected a single room fetch, got %d", got)
	}
}

func TestCLI_RequiresProject(t *testing.T) {
	_, stderr, err := runCLI(t, []string{"--project", "", "--state-dir", t.TempDir(), "rooms"})
	if err == nil || !strings.Contains(string(stderr), "no project") {
		t.Fatalf("expected missing project error, got %v / %s", err, stderr)
	}
}
