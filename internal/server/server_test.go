package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecode-client/internal/config"
	"battlecode-client/internal/database"
	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/playback/playbacktest"
	"battlecode-client/internal/protocol"
	"battlecode-client/internal/replay"
	"battlecode-client/internal/runner"
	"battlecode-client/pkg/maps"
)

type fakeRunner struct {
	path  string
	lines []string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, req runner.Request, onLine func(string)) (string, error) {
	for _, line := range f.lines {
		onLine(line)
	}
	return f.path, f.err
}

func newTestServer(t *testing.T, r MatchRunner) *httptest.Server {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.GinMode = gin.TestMode
	cfg.StreamInterval = 0
	cfg.MaxUploadMB = 1

	s := New(cfg, db, r)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Stop(context.Background())
		ts.Close()
	})
	return ts
}

func testReplay(t *testing.T) []byte {
	t.Helper()
	g := playback.NewGame()
	g.SpecVersion = game.SpecVersion
	g.Teams = []game.TeamInfo{
		{Name: "examplefuncsplayer", PackageName: "examplefuncsplayer", Team: game.TeamA},
		{Name: "botty", PackageName: "botty", Team: game.TeamB},
	}
	g.Winner = game.TeamA
	playbacktest.Match(g, playbacktest.Options{Seed: 5, Rounds: 30, Symmetry: game.Rotational})
	data, err := replay.Encode(g, replay.Options{})
	require.NoError(t, err)
	return data
}

func do(t *testing.T, method, url, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func uploadReplay(t *testing.T, ts *httptest.Server, data []byte) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, ts.URL+"/api/replays?name=final", "application/octet-stream", bytes.NewReader(data))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		Replay database.ReplayInfo `json:"replay"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Replay.ID)
	return out.Replay.ID
}

func readText(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)
	msg, err := protocol.Decode(data)
	require.NoError(t, err)
	return msg
}

// readStream consumes binary frames up to stream_end and returns the built
// game and the event count the server reported.
func readStream(t *testing.T, conn *websocket.Conn) (*replay.Builder, int) {
	t.Helper()
	b := replay.NewBuilder()
	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if kind == websocket.BinaryMessage {
			require.NoError(t, b.AddEvent(data))
			continue
		}
		msg, err := protocol.Decode(data)
		require.NoError(t, err)
		require.Equal(t, protocol.TypeStreamEnd, msg.Type)
		var end protocol.StreamEndPayload
		require.NoError(t, msg.ParsePayload(&end))
		return b, end.Events
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := do(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/api/version", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"version"`)
}

func TestReplayLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	data := testReplay(t)
	id := uploadReplay(t, ts, data)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/replays", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Replays []database.ReplayInfo `json:"replays"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Replays, 1)
	assert.Equal(t, "final", list.Replays[0].Name)
	assert.Equal(t, 1, list.Replays[0].MatchCount)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/replays/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, data, body)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "final.bc23")

	resp, body = do(t, http.MethodGet, ts.URL+"/api/replays/"+id+"/summary", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary replay.Summary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, game.SpecVersion, summary.SpecVersion)
	assert.Equal(t, "examplefuncsplayer", summary.Winner)
	require.Len(t, summary.Matches, 1)
	assert.Equal(t, 30, summary.Matches[0].Rounds)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/replays/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = do(t, http.MethodGet, ts.URL+"/api/replays/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}

func TestReplayUploadRejects(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   []byte
		status int
	}{
		{"garbage", []byte("definitely not a replay file"), http.StatusUnprocessableEntity},
		{"empty", nil, http.StatusUnprocessableEntity},
		{"too large", bytes.Repeat([]byte{1}, 1<<20+512), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/api/replays", "application/octet-stream", bytes.NewReader(tt.body))
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}

	_, body := do(t, http.MethodGet, ts.URL+"/api/replays", "", nil)
	assert.JSONEq(t, `{"replays":[]}`, string(body))
}

func TestReplayMultipartUpload(t *testing.T) {
	ts := newTestServer(t, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "scrimmage-12.bc23")
	require.NoError(t, err)
	_, err = part.Write(testReplay(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, body := do(t, http.MethodPost, ts.URL+"/api/replays", w.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"name":"scrimmage-12"`)
}

func TestMapLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	opts := maps.DefaultOptions()
	opts.Seed = 11
	current, bodies := maps.NewGenerator(opts).Generate()
	data, err := maps.Export(current, bodies, "Pond")
	require.NoError(t, err)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/maps", "application/octet-stream", bytes.NewReader(data))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Map database.MapInfo `json:"map"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Pond", out.Map.Name)
	assert.Equal(t, current.Width(), out.Map.Width)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/maps/"+out.Map.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, data, body)

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/maps", "application/octet-stream", strings.NewReader("not a map at all"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/maps", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"Pond"`)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/maps/"+out.Map.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/maps/"+out.Map.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBuiltinMaps(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/maps/builtin", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Maps []maps.MapInfo `json:"maps"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Maps)
	assert.Equal(t, maps.List(), out.Maps)
}

func TestStreamReplay(t *testing.T) {
	ts := newTestServer(t, nil)
	id := uploadReplay(t, ts, testReplay(t))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/replays/"+id+"?interval_ms=1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	start := readText(t, conn)
	require.Equal(t, protocol.TypeStreamStart, start.Type)
	var sp protocol.StreamStartPayload
	require.NoError(t, start.ParsePayload(&sp))
	assert.Equal(t, id, sp.ReplayID)
	require.NotNil(t, sp.Summary)

	b, events := readStream(t, conn)
	assert.True(t, b.Done())
	assert.Equal(t, sp.Events, events)
	assert.Equal(t, events, b.Events())
	require.Len(t, b.Game().Matches(), 1)
	assert.Equal(t, 31, b.Game().Matches()[0].TurnCount())

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestStreamReplayNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/replays/missing"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunStreamsToLiveViewers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examplefuncsplayer-vs-botty.bc23")
	require.NoError(t, os.WriteFile(path, testReplay(t), 0644))
	ts := newTestServer(t, &fakeRunner{path: path, lines: []string{"[A:HEADQUARTERS#1@1] hello", "done"}})

	live, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/live"), nil)
	require.NoError(t, err)
	defer live.Close()
	assert.Equal(t, protocol.TypeWelcome, readText(t, live).Type)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/runs", "application/json",
		strings.NewReader(`{"team_a":"examplefuncsplayer","team_b":"botty","maps":["DefaultMap"]}`))
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))
	var created struct {
		Run database.Run `json:"run"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, database.RunQueued, created.Run.Status)

	var statuses []string
	var output []string
	for len(statuses) < 2 {
		msg := readText(t, live)
		switch msg.Type {
		case protocol.TypeRunStatus:
			var p protocol.RunStatusPayload
			require.NoError(t, msg.ParsePayload(&p))
			assert.Equal(t, created.Run.ID, p.RunID)
			statuses = append(statuses, p.Status)
		case protocol.TypeRunOutput:
			var p protocol.RunOutputPayload
			require.NoError(t, msg.ParsePayload(&p))
			output = append(output, p.Line)
		}
	}
	assert.Equal(t, []string{"running", "finished"}, statuses)
	assert.Equal(t, []string{"[A:HEADQUARTERS#1@1] hello", "done"}, output)

	assert.Equal(t, protocol.TypeStreamStart, readText(t, live).Type)
	b, _ := readStream(t, live)
	assert.True(t, b.Done())

	resp, body = do(t, http.MethodGet, ts.URL+"/api/runs/"+created.Run.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Run    database.Run        `json:"run"`
		Events []database.RunEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, database.RunFinished, got.Run.Status)
	assert.NotEmpty(t, got.Run.ReplayID)
	assert.NotNil(t, got.Run.FinishedAt)

	var lines []string
	for _, e := range got.Events {
		if e.Kind == database.EventOutput {
			lines = append(lines, e.Message)
		}
	}
	assert.Equal(t, output, lines)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/replays/"+got.Run.ReplayID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunFailure(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{err: errors.New("engine failed: exit status 1")})

	resp, body := do(t, http.MethodPost, ts.URL+"/api/runs", "application/json",
		strings.NewReader(`{"team_a":"a","team_b":"b","maps":["DefaultMap"]}`))
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var created struct {
		Run database.Run `json:"run"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	assert.Eventually(t, func() bool {
		_, body := do(t, http.MethodGet, ts.URL+"/api/runs/"+created.Run.ID, "", nil)
		var got struct {
			Run database.Run `json:"run"`
		}
		return json.Unmarshal(body, &got) == nil && got.Run.Status == database.RunFailed &&
			got.Run.Error == "engine failed: exit status 1"
	}, 5*time.Second, 20*time.Millisecond)

	_, body = do(t, http.MethodGet, ts.URL+"/api/runs", "", nil)
	assert.Contains(t, string(body), created.Run.ID)
}

func TestCreateRunRejects(t *testing.T) {
	tests := []struct {
		name   string
		runner MatchRunner
		body   string
		status int
	}{
		{"bad json", &fakeRunner{}, `{`, http.StatusBadRequest},
		{"no maps", &fakeRunner{}, `{"team_a":"a","team_b":"b"}`, http.StatusBadRequest},
		{"no runner", nil, `{"team_a":"a","team_b":"b","maps":["m"]}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.runner)
			resp, body := do(t, http.MethodPost, ts.URL+"/api/runs", "application/json", strings.NewReader(tt.body))
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)

	a, b := NewClient(h, nil), NewClient(h, nil)
	h.Register(a)
	h.Register(b)
	for _, c := range []*Client{a, b} {
		welcome := <-c.send
		require.Len(t, welcome, 1)
		assert.Contains(t, string(welcome[0].data), `"welcome"`)
	}
	assert.Equal(t, 2, h.Count())

	h.Broadcast(binaryFrame([]byte{1}), binaryFrame([]byte{2}))
	for _, c := range []*Client{a, b} {
		batch := <-c.send
		require.Len(t, batch, 2)
		assert.Equal(t, []byte{2}, batch[1].data)
	}

	h.Unregister(a)
	_, ok := <-a.send
	assert.False(t, ok)

	cancel()
	<-h.done
	_, ok = <-b.send
	assert.False(t, ok)

	h.Register(NewClient(h, nil))
	h.Broadcast(binaryFrame(nil))
}
