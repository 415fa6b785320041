package gateway

import (
	"context"
	"net/http"
	"net/url"

	"roomprog/internal/model"

	"github.com/pkg/errors"
)

func errMissing(field string) error { return errors.Errorf("missing %q", field) }

// FetchRoomData loads every configured category of one room in a single round trip.
// Categories absent from the response come back empty.
func (c *Client) FetchRoomData(ctx context.Context, projectID, roomID string) (map[string]model.CategoryData, error) {
	var out struct {
		RoomData map[string][]model.Record `json:"room_data"`
	}
	err := c.do(ctx, call{
		op:     "fetch room data",
		method: http.MethodGet,
		path:   "/workspace/api/projects/" + esc(projectID) + "/room_data/" + esc(roomID),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.RoomData == nil {
		return nil, &model.ProtocolError{Op: "fetch room data", Err: errMissing("room_data")}
	}
	res := make(map[string]model.CategoryData, len(c.cats.IDs()))
	for _, cat := range c.cats.All() {
		res[cat.ID] = model.NewCategoryData(cat, roomID, out.RoomData[cat.ID])
	}
	return res, nil
}

func (c *Client) FetchCategoryData(ctx context.Context, projectID, category, roomID string) (model.CategoryData, error) {
	cat, err := c.category("fetch category", category)
	if err != nil {
		return model.CategoryData{}, err
	}
	var out struct {
		Items []model.Record `json:"items"`
	}
	err = c.do(ctx, call{
		op:     "fetch " + cat.ID,
		method: http.MethodGet,
		path:   "/workspace/api/projects/" + esc(projectID) + "/tabs/" + esc(cat.ID),
		query:  url.Values{"room_id": []string{roomID}},
	}, &out)
	if err != nil {
		return model.CategoryData{}, err
	}
	return model.NewCategoryData(cat, roomID, out.Items), nil
}
