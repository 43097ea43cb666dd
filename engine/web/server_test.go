package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/viewport"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, placement.Store) {
	t.Helper()
	store, err := placement.NewJSONStore(filepath.Join(t.TempDir(), "boards.json"))
	require.NoError(t, err)

	srv, err := NewServer(settings.Default(), store)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts, store
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func TestNewServerRejectsBadSettings(t *testing.T) {
	s := settings.Default()
	s.Viewport.TileWidth = 0
	_, err := NewServer(s, nil)
	require.ErrorIs(t, err, viewport.ErrInvalidConfig)
}

func TestHealth(t *testing.T) {
	_, ts, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetCells(t *testing.T) {
	_, ts, _ := newTestServer(t)

	var resp CellsResponse
	code := getJSON(t, ts.URL+"/api/cells?scrollX=0&scrollY=1000&zoom=1", &resp)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Cells, 900)
	assert.Equal(t, 1.0, resp.Camera.Zoom)

	// floor((1000 - 360) / 32) = 20, so rows 25.. are water
	assert.Equal(t, 20, resp.Window.MinY)
	for _, c := range resp.Cells {
		want := viewport.TerrainLand
		if c.Y > 24 {
			want = viewport.TerrainWater
		}
		require.Equal(t, want, c.Terrain, "(%d,%d)", c.X, c.Y)
	}
}

func TestGetCellsClampsZoom(t *testing.T) {
	_, ts, _ := newTestServer(t)
	var resp CellsResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/cells?zoom=99", &resp))
	assert.Equal(t, 2.0, resp.Camera.Zoom)
}

func TestGetCellsRejectsBadScroll(t *testing.T) {
	_, ts, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/cells?scrollX=abc", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/cells?scrollY=NaN", nil))
}

func TestGetProject(t *testing.T) {
	_, ts, _ := newTestServer(t)
	var p viewport.ScreenPoint
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/project/2/1", &p))
	// origin (640, 360 - 30*32/2) = (640, -120)
	assert.Equal(t, viewport.ScreenPoint{X: 672, Y: -72}, p)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/project/a/1", nil))
}

func TestGetPick(t *testing.T) {
	srv, ts, _ := newTestServer(t)

	cam, err := settings.Default().NewCamera()
	require.NoError(t, err)
	p := srv.tiler.DisplayPoint(cam, 3, 7)

	var cell viewport.GridCell
	url := ts.URL + "/api/pick?x=" + ftoa(p.X) + "&y=" + ftoa(p.Y)
	require.Equal(t, http.StatusOK, getJSON(t, url, &cell))
	assert.Equal(t, 3, cell.X)
	assert.Equal(t, 7, cell.Y)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/pick?x=1", nil))
}

func ftoa(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server, board string) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?board=" + board
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msg ClientMessage) {
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) read(typ string, dst any) {
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err)

	var head struct {
		Type string `json:"type"`
	}
	require.NoError(c.t, json.Unmarshal(data, &head))
	require.Equal(c.t, typ, head.Type, "got %s", data)
	require.NoError(c.t, json.Unmarshal(data, dst))
}

func (c *wsClient) frame() FrameMessage {
	var f FrameMessage
	c.read(MessageFrame, &f)
	return f
}

func (c *wsClient) errorMessage() string {
	var msg ErrorMessage
	c.read(MessageError, &msg)
	return msg.Error
}

func TestSessionDragAndZoom(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dial(t, ts, "drag")

	first := c.frame()
	assert.Len(t, first.Cells, 900)
	assert.Equal(t, "idle", first.Drag)
	assert.Nil(t, first.Hover)
	assert.Equal(t, 0.8, first.Camera.Zoom)

	c.send(ClientMessage{Type: MessagePointerDown, X: 100, Y: 100})
	assert.Equal(t, "dragging", c.frame().Drag)

	c.send(ClientMessage{Type: MessagePointerMove, X: 80, Y: 130})
	moved := c.frame()
	assert.Equal(t, 20.0, moved.Camera.ScrollX)
	assert.Equal(t, -30.0, moved.Camera.ScrollY)
	require.NotNil(t, moved.Hover)

	c.send(ClientMessage{Type: MessagePointerUp, X: 80, Y: 130})
	assert.Equal(t, "idle", c.frame().Drag)

	c.send(ClientMessage{Type: MessageWheel, X: 80, Y: 130, DeltaY: -200})
	assert.InDelta(t, 1.0, c.frame().Camera.Zoom, 1e-9)

	c.send(ClientMessage{Type: MessageWheel, DeltaY: -MaxCoordinate})
	zoomed := c.frame()
	assert.Equal(t, 2.0, zoomed.Camera.Zoom)
	require.NotNil(t, zoomed.Hover)
	assert.Equal(t, moved.Hover.X, zoomed.Hover.X, "wheel keeps the hovered cell")
	assert.Equal(t, moved.Hover.Y, zoomed.Hover.Y)
}

func TestSessionWheelWithoutPointerKeepsNoHover(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dial(t, ts, "wheel")
	c.frame()

	c.send(ClientMessage{Type: MessageWheel, DeltaY: 100})
	f := c.frame()
	assert.Nil(t, f.Hover)
	assert.InDelta(t, 0.7, f.Camera.Zoom, 1e-9)
}

func TestSessionRejectsOverflowingPointer(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dial(t, ts, "huge")
	c.frame()

	c.send(ClientMessage{Type: MessagePointerDown, X: -1.7e308, Y: 0})
	assert.Equal(t, "x out of range", c.errorMessage())

	c.send(ClientMessage{Type: MessagePointerDown, X: 100, Y: 100})
	assert.Equal(t, "dragging", c.frame().Drag)

	c.send(ClientMessage{Type: MessagePointerMove, X: 1.7e308, Y: 100})
	assert.Equal(t, "x out of range", c.errorMessage())
	c.send(ClientMessage{Type: MessagePointerMove, X: 100, Y: -2 * MaxCoordinate})
	assert.Equal(t, "y out of range", c.errorMessage())
	c.send(ClientMessage{Type: MessageWheel, DeltaY: 1e300})
	assert.Equal(t, "deltaY out of range", c.errorMessage())

	// the session still works and the camera was never touched
	c.send(ClientMessage{Type: MessagePointerMove, X: 80, Y: 130})
	f := c.frame()
	assert.Equal(t, 20.0, f.Camera.ScrollX)
	assert.Equal(t, -30.0, f.Camera.ScrollY)
	assert.Equal(t, 0.8, f.Camera.Zoom)
}

func TestSessionPlacement(t *testing.T) {
	srv, ts, store := newTestServer(t)
	c := dial(t, ts, "town")
	first := c.frame()

	// find a land cell under the viewport center
	hover := srv.tiler.Pick(first.Camera, 640, 360)
	require.Equal(t, viewport.TerrainLand, hover.Terrain)

	c.send(ClientMessage{Type: MessageClick, X: 640, Y: 360, Kind: "tree"})
	f := c.frame()
	require.Len(t, f.Objects, 1)
	assert.Equal(t, hover.X, f.Objects[0].X)
	assert.Equal(t, "tree", f.Objects[0].Kind)

	c.send(ClientMessage{Type: MessageClick, X: 640, Y: 360})
	assert.Contains(t, c.errorMessage(), "occupied")

	saved, err := store.LoadBoard("town")
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	var objs []placement.Object
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/boards/town", &objs))
	assert.Len(t, objs, 1)

	c.send(ClientMessage{Type: MessageErase, X: 640, Y: 360})
	assert.Empty(t, c.frame().Objects)
	assert.Zero(t, srv.Board("town").Len())
}

func TestSessionRejectsWater(t *testing.T) {
	srv, ts, _ := newTestServer(t)
	c := dial(t, ts, "sea")
	c.frame()

	// scroll down until the viewport center is over water
	c.send(ClientMessage{Type: MessagePointerDown, X: 0, Y: 1000})
	c.send(ClientMessage{Type: MessagePointerMove, X: 0, Y: 0})
	c.frame()
	f := c.frame()
	require.Equal(t, 1000.0, f.Camera.ScrollY)
	c.send(ClientMessage{Type: MessagePointerUp})
	c.frame()

	cell := srv.tiler.Pick(f.Camera, 640, 360)
	require.Equal(t, viewport.TerrainWater, cell.Terrain)

	c.send(ClientMessage{Type: MessageClick, X: 640, Y: 360})
	assert.Contains(t, c.errorMessage(), "water")
	assert.Zero(t, srv.Board("sea").Len())
}

func TestSessionUnknownMessage(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dial(t, ts, "x")
	c.frame()

	c.send(ClientMessage{Type: "teleport"})
	assert.Contains(t, c.errorMessage(), "teleport")

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "malformed message", c.errorMessage())
}
