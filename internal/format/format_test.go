package format

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

type sample struct {
	RoomID string   `json:"roomId"`
	Count  int      `json:"count"`
	Tags   []string `json:"tags"`
	Empty  any      `json:"empty"`
}

type texter struct{}

func (texter) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, "custom\n")
	return err
}

func TestWriteEDN_KeywordsAndValues(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{RoomID: "42", Count: 3, Tags: []string{"a"}}, EDN, false); err != nil {
		t.Fatal(err)
	}
	want := `{:count 3 :empty nil :room-id "42" :tags ["a"]}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriteEDN_PrettyAndPrecision(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"area": json.Number("12.50"), "rows": []any{}}
	if err := WriteEDN(&buf, v, true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  :area 12.50\n  :rows []\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestKeyword(t *testing.T) {
	for in, want := range map[string]string{
		"roomId":     ":room-id",
		"doors_id":   ":doors-id",
		"noHistory":  ":no-history",
		"planned m2": ":planned-m2",
	} {
		if got := Keyword(in); got != want {
			t.Fatalf("Keyword(%q)=%q want %q", in, got, want)
		}
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"name": "A&B <lab>"}, "", false); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"name\":\"A&B <lab>\"}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteText_UsesTexterOrYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, texter{}, Text, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "custom\n" {
		t.Fatalf("texter not used: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, sample{RoomID: "42", Count: 3}, Text, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "roomId:") || !strings.Contains(buf.String(), "count: 3") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(io.Discard, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("xml") || !Valid("edn") {
		t.Fatalf("Valid mismatch")
	}
}

func TestTable_ContainsCells(t *testing.T) {
	out := Table([]string{"Number", "Quantity"}, [][]string{{"D-1", "2"}})
	for _, s := range []string{"Number", "Quantity", "D-1", "2"} {
		if !strings.Contains(out, s) {
			t.Fatalf("missing %q in\n%s", s, out)
		}
	}
}
