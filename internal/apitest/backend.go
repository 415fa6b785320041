// Package apitest runs an in-memory room-programming backend for tests.
// It implements the same routes the real server exposes to the client.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"roomprog/internal/model"

	"github.com/gin-gonic/gin"
)

type failure struct {
	status  int
	message string
}

type Backend struct {
	mu       sync.Mutex
	special  map[string]bool
	rooms    []model.Room
	data     map[string]map[string][]map[string]any // room -> category -> rows
	history  map[string][]map[string]any            // room/category -> entries
	nextID   int
	hits     map[string]int
	failures map[string]failure
	clock    func() time.Time
}

// New returns an empty backend. special lists the categories stored as one record per room.
func New(special ...string) *Backend {
	b := &Backend{
		special:  map[string]bool{},
		data:     map[string]map[string][]map[string]any{},
		history:  map[string][]map[string]any{},
		nextID:   100,
		hits:     map[string]int{},
		failures: map[string]failure{},
		clock:    func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) },
	}
	for _, s := range special {
		b.special[s] = true
	}
	return b
}

// Start serves the backend on a loopback listener closed with the test.
func (b *Backend) Start(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return srv
}

func (b *Backend) AddRoom(r model.Room) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, r)
}

func (b *Backend) RemoveRoom(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.rooms[:0]
	for _, r := range b.rooms {
		if r.ID != id {
			out = append(out, r)
		}
	}
	b.rooms = out
	delete(b.data, id)
}

// SetRows replaces the rows of one category of a room.
func (b *Backend) SetRows(roomID, category string, rows ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data[roomID] == nil {
		b.data[roomID] = map[string][]map[string]any{}
	}
	b.data[roomID][category] = rows
}

func (b *Backend) Rows(roomID, category string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.data[roomID][category]...)
}

// Fail makes every matching request answer with status until Clear is called.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// Hits counts requests by "METHOD /path".
func (b *Backend) Hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

func (b *Backend) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), b.track)

	api := r.Group("/workspace/api")
	api.GET("/projects/:project/rooms", b.listRooms)
	api.GET("/projects/:project/room_data/:room", b.roomData)
	api.GET("/projects/:project/tabs/:category", b.tab)
	api.GET("/rooms/:room", b.getRoom)

	ws := r.Group("/workspace/projects/:project")
	ws.GET("/entity_history/:category", b.entityHistory)
	ws.GET("/rooms/:room/history", b.roomHistory)
	ws.POST("/:action", b.write)
	return r
}

func (b *Backend) track(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path
	b.mu.Lock()
	b.hits[key]++
	f, fail := b.failures[key]
	b.mu.Unlock()
	if fail {
		c.AbortWithStatusJSON(f.status, gin.H{"success": false, "message": f.message})
		return
	}
	c.Next()
}

func (b *Backend) findRoom(id string) (model.Room, bool) {
	return model.FindRoom(b.rooms, id)
}

func (b *Backend) listRooms(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": b.rooms})
}

func (b *Backend) getRoom(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.findRoom(c.Param("room"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "room": room})
}

func (b *Backend) roomData(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	roomID := c.Param("room")
	if _, ok := b.findRoom(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "room not found"})
		return
	}
	out := map[string][]map[string]any{}
	for cat, rows := range b.data[roomID] {
		out[cat] = rows
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "room_data": out})
}

func (b *Backend) tab(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	roomID := c.Query("room_id")
	if _, ok := b.findRoom(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "room not found"})
		return
	}
	rows := b.data[roomID][c.Param("category")]
	if rows == nil {
		rows = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": rows})
}

func (b *Backend) entityHistory(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.history[c.Query("room_id")+"/"+c.Param("category")]
	if entries == nil {
		entries = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

func (b *Backend) roomHistory(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := c.Param("room") + "/"
	var keys []string
	for k := range b.history {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	entries := []map[string]any{}
	for _, k := range keys {
		entries = append(entries, b.history[k]...)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

type writeRequest struct {
	ID          any            `json:"id"`
	Category    string         `json:"category"`
	RoomID      string         `json:"room_id"`
	NewData     map[string]any `json:"new_data"`
	UpdatedData map[string]any `json:"updatedData"`
}

func (b *Backend) write(c *gin.Context) {
	action := c.Param("action")
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid JSON"})
		return
	}
	var req writeRequest
	buf, _ := json.Marshal(raw)
	_ = json.Unmarshal(buf, &req)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case action == "add_item":
		b.addItem(c, req)
	case action == "edit_item":
		b.editItem(c, req)
	case action == "delete_item":
		b.deleteItem(c, req)
	case strings.HasPrefix(action, "edit_"):
		b.editSpecial(c, strings.TrimPrefix(action, "edit_"), raw)
	default:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown action"})
	}
}

func (b *Backend) addItem(c *gin.Context, req writeRequest) {
	if _, ok := b.findRoom(req.RoomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "room not found"})
		return
	}
	if len(req.NewData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no fields submitted"})
		return
	}
	b.nextID++
	row := map[string]any{req.Category + "_id": b.nextID, "room_id": req.RoomID}
	for k, v := range req.NewData {
		row[k] = v
	}
	if b.data[req.RoomID] == nil {
		b.data[req.RoomID] = map[string][]map[string]any{}
	}
	b.data[req.RoomID][req.Category] = append(b.data[req.RoomID][req.Category], row)
	b.record(req.RoomID, req.Category, "create", req.NewData)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": b.nextID})
}

func (b *Backend) locate(category string, id any) (string, int, bool) {
	want := model.FormatValue(id)
	for roomID, cats := range b.data {
		for i, row := range cats[category] {
			if model.FormatValue(row[category+"_id"]) == want {
				return roomID, i, true
			}
		}
	}
	return "", 0, false
}

func (b *Backend) editItem(c *gin.Context, req writeRequest) {
	roomID, idx, ok := b.locate(req.Category, req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "item not found"})
		return
	}
	if len(req.UpdatedData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no fields submitted"})
		return
	}
	row := b.data[roomID][req.Category][idx]
	for k, v := range req.UpdatedData {
		row[k] = v
	}
	b.record(roomID, req.Category, "update", req.UpdatedData)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) deleteItem(c *gin.Context, req writeRequest) {
	roomID, idx, ok := b.locate(req.Category, req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "item not found"})
		return
	}
	rows := b.data[roomID][req.Category]
	b.data[roomID][req.Category] = append(rows[:idx:idx], rows[idx+1:]...)
	b.record(roomID, req.Category, "delete", map[string]any{"id": req.ID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) editSpecial(c *gin.Context, category string, raw map[string]any) {
	if !b.special[category] {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": fmt.Sprintf("unknown special category %q", category)})
		return
	}
	roomID, _ := raw["room_id"].(string)
	if _, ok := b.findRoom(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "room not found"})
		return
	}
	if b.data[roomID] == nil {
		b.data[roomID] = map[string][]map[string]any{}
	}
	rows := b.data[roomID][category]
	if len(rows) == 0 {
		b.nextID++
		rows = []map[string]any{{category + "_id": b.nextID, "room_id": roomID}}
	}
	for k, v := range raw {
		rows[0][k] = v
	}
	b.data[roomID][category] = rows
	delete(raw, "room_id")
	b.record(roomID, category, "update", raw)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) record(roomID, category, action string, details map[string]any) {
	d, _ := json.Marshal(details)
	key := roomID + "/" + category
	b.history[key] = append(b.history[key], map[string]any{
		"timestamp":   b.clock().Format(time.RFC3339),
		"user_name":   "tester",
		"action_type": action,
		"details":     string(d),
	})
}
