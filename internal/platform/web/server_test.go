package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type testServer struct {
	*Server
	sessions *SessionManager
	store    *storage.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	sessions := NewSessionManager(time.Hour, WithStore(store), WithLogger(logger))
	srv := NewServer(Config{AllowedOrigin: "*", SwipeThreshold: 30}, sessions, store, logger)
	return testServer{Server: srv, sessions: sessions, store: store}
}

func (ts testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts testServer) create(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[gameResponse](t, rec).ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"ok":true,"sessions":0}`, rec.Body.String())
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[gameResponse](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, game.StatusPlaying, created.Status)

	rec = ts.do(t, http.MethodGet, "/games/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[gameResponse](t, rec)
	assert.Equal(t, created, got)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"id", "board", "score", "best", "max_tile", "moves", "status"} {
		assert.Contains(t, raw, key)
	}
}

func TestMoveEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t)
	loadBoard(t, ts.sessions, id, board.Grid{2, 2}, 0)

	rec := ts.do(t, http.MethodPost, "/games/"+id+"/moves", `{"direction":"left"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[moveResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, 4, resp.Gained)
	assert.Equal(t, 4, resp.Score)
	assert.Equal(t, 4, resp.Board[0][0])
	require.NotNil(t, resp.Spawned)
	assert.Contains(t, []int{2, 4}, resp.Spawned.Value)
}

func TestMoveSwipe(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t)
	loadBoard(t, ts.sessions, id, board.Grid{2, 2}, 0)

	// Below the threshold: nothing happens.
	rec := ts.do(t, http.MethodPost, "/games/"+id+"/moves", `{"swipe":{"dx":20,"dy":5}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[moveResponse](t, rec).Changed)

	rec = ts.do(t, http.MethodPost, "/games/"+id+"/moves", `{"swipe":{"dx":120,"dy":-40}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[moveResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, 4, resp.Board[0][3])
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t)
	finished := ts.create(t)
	loadBoard(t, ts.sessions, finished, finishedBoard, 20)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown direction", "/games/" + id + "/moves", `{"direction":"diagonal"}`, http.StatusBadRequest, "unknown_direction"},
		{"empty body", "/games/" + id + "/moves", `{}`, http.StatusBadRequest, "unknown_direction"},
		{"bad json", "/games/" + id + "/moves", `{`, http.StatusBadRequest, "bad_json"},
		{"unknown session", "/games/nope/moves", `{"direction":"up"}`, http.StatusNotFound, "session_not_found"},
		{"game over", "/games/" + finished + "/moves", `{"direction":"up"}`, http.StatusConflict, "game_over"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestResetAndDeleteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t)
	loadBoard(t, ts.sessions, id, finishedBoard, 64)

	rec := ts.do(t, http.MethodPost, "/games/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[gameResponse](t, rec)
	assert.Equal(t, game.StatusPlaying, resp.Status)
	assert.Zero(t, resp.Score)

	rec = ts.do(t, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The abandoned game was recorded on reset.
	high, err := ts.store.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 64, high)
}

func TestScoresEndpoint(t *testing.T) {
	ts := newTestServer(t)
	for _, score := range []int{120, 480, 300} {
		_, err := ts.store.SaveResult(storage.Result{Score: score, MaxTile: 32, Source: storage.SourceSSH})
		require.NoError(t, err)
	}

	rec := ts.do(t, http.MethodGet, "/scores?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	scores := decode[[]scoreResponse](t, rec)
	require.Len(t, scores, 2)
	assert.Equal(t, 1, scores[0].Rank)
	assert.Equal(t, 480, scores[0].Score)
	assert.Equal(t, 300, scores[1].Score)
	assert.Equal(t, storage.SourceSSH, scores[0].Source)

	for _, bad := range []string{"0", "-1", "abc", "1000"} {
		rec = ts.do(t, http.MethodGet, "/scores?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodOptions, "/games", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nowhere", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]string](t, rec)["error"])
}

func TestWebSocketPlay(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t)
	loadBoard(t, ts.sessions, id, board.Grid{2, 2}, 0)

	httpSrv := httptest.NewServer(ts.Handler())
	defer httpSrv.Close()

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() wsMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	initial := read()
	require.Equal(t, "state", initial.Type)
	assert.Equal(t, 2, initial.Game.Board[0][0])

	require.NoError(t, conn.WriteJSON(map[string]string{"direction": "left"}))
	moved := read()
	require.Equal(t, "state", moved.Type)
	assert.True(t, moved.Game.Changed)
	assert.Equal(t, 4, moved.Game.Score)

	require.NoError(t, conn.WriteJSON(map[string]string{"direction": "sideways"}))
	assert.Equal(t, "unknown_direction", read().Error)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "reset"}))
	reset := read()
	require.Equal(t, "state", reset.Type)
	assert.Zero(t, reset.Game.Score)
	assert.Equal(t, 4, reset.Game.Best)
}

func TestWebSocketUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	httpSrv := httptest.NewServer(ts.Handler())
	defer httpSrv.Close()

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/games/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
