package gateway

import (
	"context"
	"net/http"

	"roomprog/internal/model"
)

// CreateItem adds a row to a tabular category and returns the new row id.
func (c *Client) CreateItem(ctx context.Context, projectID, category, roomID string, fields map[string]any) (string, error) {
	cat, err := c.category("create item", category)
	if err != nil {
		return "", err
	}
	var out struct {
		ID model.Text `json:"id"`
	}
	err = c.do(ctx, call{
		op:     "create " + cat.ID,
		method: http.MethodPost,
		path:   "/workspace/projects/" + esc(projectID) + "/add_item",
		body: map[string]any{
			"category": cat.ID,
			"room_id":  roomID,
			"new_data": fields,
		},
		write: true,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &model.ProtocolError{Op: "create " + cat.ID, Err: errMissing("id")}
	}
	return out.ID.String(), nil
}

// UpdateItem sends only the named fields.
func (c *Client) UpdateItem(ctx context.Context, projectID, category, itemID string, fields map[string]any) error {
	cat, err := c.category("update item", category)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		op:     "update " + cat.ID,
		method: http.MethodPost,
		path:   "/workspace/projects/" + esc(projectID) + "/edit_item",
		body: map[string]any{
			"id":          itemID,
			"category":    cat.ID,
			"updatedData": fields,
		},
		write: true,
	}, nil)
}

func (c *Client) DeleteItem(ctx context.Context, projectID, category, itemID string) error {
	cat, err := c.category("delete item", category)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		op:     "delete " + cat.ID,
		method: http.MethodPost,
		path:   "/workspace/projects/" + esc(projectID) + "/delete_item",
		body: map[string]any{
			"id":       itemID,
			"category": cat.ID,
		},
		write: true,
	}, nil)
}

// UpdateSpecialRecord upserts the single record of a special category, keyed by room.
func (c *Client) UpdateSpecialRecord(ctx context.Context, projectID, category, roomID string, fields map[string]any) error {
	cat, err := c.category("update special", category)
	if err != nil {
		return err
	}
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["room_id"] = roomID
	return c.do(ctx, call{
		op:     "update " + cat.ID,
		method: http.MethodPost,
		path:   "/workspace/projects/" + esc(projectID) + "/edit_" + esc(cat.ID),
		body:   body,
		write:  true,
	}, nil)
}
