package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomprog/internal/model"
)

type wireHistory struct {
	Timestamp  string          `json:"timestamp"`
	UserName   string          `json:"user_name"`
	ActionType string          `json:"action_type"`
	Details    json.RawMessage `json:"details"`
}

// Flask serializes datetimes as RFC1123; other deployments send ISO 8601.
var historyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range historyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func detailsText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func (c *Client) history(ctx context.Context, cl call) ([]model.HistoryEntry, error) {
	var out struct {
		History []wireHistory `json:"history"`
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	entries := make([]model.HistoryEntry, 0, len(out.History))
	for _, h := range out.History {
		entries = append(entries, model.HistoryEntry{
			Timestamp:  parseTimestamp(h.Timestamp),
			UserName:   h.UserName,
			ActionType: h.ActionType,
			Details:    detailsText(h.Details),
		})
	}
	return entries, nil
}

// FetchHistory returns the change log of one category for one room, oldest
// first as sent by the server. No history is an empty slice.
func (c *Client) FetchHistory(ctx context.Context, projectID, category, roomID string) ([]model.HistoryEntry, error) {
	cat, err := c.category("fetch history", category)
	if err != nil {
		return nil, err
	}
	return c.history(ctx, call{
		op:     "history " + cat.ID,
		method: http.MethodGet,
		path:   "/workspace/projects/" + esc(projectID) + "/entity_history/" + esc(cat.ID),
		query:  url.Values{"room_id": []string{roomID}},
	})
}

func (c *Client) FetchRoomHistory(ctx context.Context, projectID, roomID string) ([]model.HistoryEntry, error) {
	return c.history(ctx, call{
		op:     "room history",
		method: http.MethodGet,
		path:   "/workspace/projects/" + esc(projectID) + "/rooms/" + esc(roomID) + "/history",
	})
}
