package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text is a string field that the backend sometimes sends as a JSON number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

type Room struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Sector         Text   `json:"sector,omitempty"`
	FunctionalUnit Text   `json:"functional_unit,omitempty"`
	ProgramNumber  Text   `json:"program_number,omitempty"`
	PlannedArea    Text   `json:"planned_area,omitempty"`
}

// DisplayName falls back to the id for rooms the backend sent without a name.
func (r Room) DisplayName() string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	return r.ID
}

func FindRoom(rooms []Room, id string) (Room, bool) {
	id = strings.TrimSpace(id)
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
