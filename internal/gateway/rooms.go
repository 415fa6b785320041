package gateway

import (
	"context"
	"net/http"

	"roomprog/internal/model"
)

func (c *Client) FetchRooms(ctx context.Context, projectID string) ([]model.Room, error) {
	var out struct {
		Rooms []model.Room `json:"rooms"`
	}
	err := c.do(ctx, call{
		op:     "fetch rooms",
		method: http.MethodGet,
		path:   "/workspace/api/projects/" + esc(projectID) + "/rooms",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Rooms == nil {
		out.Rooms = []model.Room{}
	}
	return out.Rooms, nil
}

func (c *Client) FetchRoom(ctx context.Context, roomID string) (model.Room, error) {
	var out struct {
		Room *model.Room `json:"room"`
	}
	err := c.do(ctx, call{
		op:     "fetch room",
		method: http.MethodGet,
		path:   "/workspace/api/rooms/" + esc(roomID),
	}, &out)
	if err != nil {
		return model.Room{}, err
	}
	if out.Room == nil {
		return model.Room{}, &model.ProtocolError{Op: "fetch room", Err: errMissing("room")}
	}
	return *out.Room, nil
}
