package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/playback/playbacktest"
	"battlecode-client/internal/protocol"
	"battlecode-client/internal/replay"
)

func testEvents(t *testing.T) [][]byte {
	t.Helper()
	g := playback.NewGame()
	g.SpecVersion = game.SpecVersion
	g.Teams = []game.TeamInfo{
		{Name: "a", PackageName: "a", Team: game.TeamA},
		{Name: "b", PackageName: "b", Team: game.TeamB},
	}
	g.Winner = game.TeamB
	playbacktest.Match(g, playbacktest.Options{Seed: 3, Rounds: 12, Symmetry: game.Vertical})
	playbacktest.Match(g, playbacktest.Options{Seed: 4, Rounds: 7, Symmetry: game.Horizontal})
	events, err := replay.EncodeEvents(g)
	require.NoError(t, err)
	return events
}

func text(t *testing.T, typ protocol.MessageType, payload interface{}) Frame {
	t.Helper()
	msg, err := protocol.NewMessage(typ, payload)
	require.NoError(t, err)
	return Frame{Message: msg}
}

func TestURLs(t *testing.T) {
	tests := []struct {
		server string
		stream string
		live   string
		http   string
	}{
		{"localhost:30000", "ws://localhost:30000/ws/replays/abc?interval_ms=0", "ws://localhost:30000/ws/live", "http://localhost:30000"},
		{"http://example.com/bc/", "ws://example.com/bc/ws/replays/abc?interval_ms=0", "ws://example.com/bc/ws/live", "http://example.com/bc"},
		{"https://example.com", "wss://example.com/ws/replays/abc?interval_ms=0", "wss://example.com/ws/live", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			stream, err := StreamURL(tt.server, "abc", 0)
			require.NoError(t, err)
			assert.Equal(t, tt.stream, stream)

			live, err := LiveURL(tt.server)
			require.NoError(t, err)
			assert.Equal(t, tt.live, live)

			base, err := HTTPBase(tt.server)
			require.NoError(t, err)
			assert.Equal(t, tt.http, base)
		})
	}

	stream, err := StreamURL("localhost:1", "x", -1)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:1/ws/replays/x", stream)

	_, err = LiveURL("ftp://example.com")
	assert.Error(t, err)
}

func TestReceiverAssemblesStream(t *testing.T) {
	events := testEvents(t)
	r := NewReceiver()

	u, err := r.Apply(text(t, protocol.TypeStreamStart, protocol.StreamStartPayload{ReplayID: "r1", Events: len(events)}))
	require.NoError(t, err)
	assert.Equal(t, UpdateStarted, u.Kind)
	assert.True(t, r.Streaming())

	sawMatch := false
	for _, ev := range events {
		u, err = r.Apply(Frame{Binary: ev})
		require.NoError(t, err)
		assert.Equal(t, UpdateEvent, u.Kind)
		if u.Match != nil {
			sawMatch = true
		}
	}
	assert.True(t, sawMatch)

	u, err = r.Apply(text(t, protocol.TypeStreamEnd, protocol.StreamEndPayload{ReplayID: "r1", Events: len(events)}))
	require.NoError(t, err)
	assert.Equal(t, UpdateFinished, u.Kind)
	assert.False(t, r.Streaming())
	require.Len(t, u.Game.Matches(), 2)
	assert.Equal(t, 13, u.Game.Matches()[0].TurnCount())
	assert.Equal(t, 8, u.Game.Matches()[1].TurnCount())
	assert.Same(t, u.Game.Matches()[0], u.Match)
}

func TestReceiverRejects(t *testing.T) {
	events := testEvents(t)

	t.Run("event outside stream", func(t *testing.T) {
		_, err := NewReceiver().Apply(Frame{Binary: events[0]})
		assert.ErrorIs(t, err, ErrNoStream)
	})

	t.Run("end before footer", func(t *testing.T) {
		r := NewReceiver()
		_, err := r.Apply(text(t, protocol.TypeStreamStart, protocol.StreamStartPayload{}))
		require.NoError(t, err)
		_, err = r.Apply(Frame{Binary: events[0]})
		require.NoError(t, err)
		_, err = r.Apply(text(t, protocol.TypeStreamEnd, protocol.StreamEndPayload{Events: len(events)}))
		assert.ErrorIs(t, err, ErrIncomplete)
		assert.False(t, r.Streaming())
	})

	t.Run("event count mismatch", func(t *testing.T) {
		r := NewReceiver()
		_, err := r.Apply(text(t, protocol.TypeStreamStart, protocol.StreamStartPayload{}))
		require.NoError(t, err)
		for _, ev := range events {
			_, err = r.Apply(Frame{Binary: ev})
			require.NoError(t, err)
		}
		_, err = r.Apply(text(t, protocol.TypeStreamEnd, protocol.StreamEndPayload{Events: len(events) + 1}))
		assert.ErrorIs(t, err, ErrIncomplete)
	})

	t.Run("broken event", func(t *testing.T) {
		r := NewReceiver()
		_, err := r.Apply(text(t, protocol.TypeStreamStart, protocol.StreamStartPayload{}))
		require.NoError(t, err)
		_, err = r.Apply(Frame{Binary: events[1]})
		var de *replay.DecodeError
		assert.ErrorAs(t, err, &de)
		assert.False(t, r.Streaming())
	})
}

func TestReceiverServerMessages(t *testing.T) {
	r := NewReceiver()

	u, err := r.Apply(text(t, protocol.TypeWelcome, protocol.WelcomePayload{ServerVersion: "1.2.0"}))
	require.NoError(t, err)
	assert.Equal(t, UpdateWelcome, u.Kind)
	assert.Equal(t, "1.2.0", u.Version)

	u, err = r.Apply(text(t, protocol.TypeRunStatus, protocol.RunStatusPayload{RunID: "7", Status: "running"}))
	require.NoError(t, err)
	assert.Equal(t, UpdateRunStatus, u.Kind)
	assert.Equal(t, "running", u.Run.Status)

	u, err = r.Apply(text(t, protocol.TypeRunOutput, protocol.RunOutputPayload{RunID: "7", Line: "[A:HQ#1@3] hi"}))
	require.NoError(t, err)
	assert.Equal(t, UpdateRunOutput, u.Kind)
	assert.Equal(t, "[A:HQ#1@3] hi", u.Line)
	assert.Equal(t, "7", u.Run.RunID)

	u, err = r.Apply(text(t, protocol.TypeError, protocol.ErrorPayload{Code: protocol.ErrCodeNotFound, Message: "no such replay"}))
	require.NoError(t, err)
	assert.Equal(t, UpdateServerError, u.Kind)
	assert.ErrorContains(t, u.Err, "no such replay")

	u, err = r.Apply(text(t, protocol.TypePong, nil))
	require.NoError(t, err)
	assert.Equal(t, UpdateNone, u.Kind)
}

func TestNetworkClientReadsFrames(t *testing.T) {
	events := testEvents(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		start, _ := protocol.Encode(protocol.TypeStreamStart, protocol.StreamStartPayload{ReplayID: "r", Events: len(events)})
		conn.Write(ctx, websocket.MessageText, start)
		for _, ev := range events {
			conn.Write(ctx, websocket.MessageBinary, ev)
		}
		end, _ := protocol.Encode(protocol.TypeStreamEnd, protocol.StreamEndPayload{ReplayID: "r", Events: len(events)})
		conn.Write(ctx, websocket.MessageText, end)
		conn.Close(websocket.StatusNormalClosure, "done")
	}))
	defer srv.Close()

	url, err := StreamURL(srv.URL, "r", -1)
	require.NoError(t, err)

	c := NewNetworkClient()
	require.NoError(t, c.Connect(context.Background(), url))

	r := NewReceiver()
	var last Update
	timeout := time.After(10 * time.Second)
	for done := false; !done; {
		select {
		case f, ok := <-c.Recv():
			if !ok {
				done = true
				break
			}
			u, err := r.Apply(f)
			require.NoError(t, err)
			last = u
		case <-timeout:
			t.Fatal("stream did not finish")
		}
	}

	assert.Equal(t, UpdateFinished, last.Kind)
	assert.Len(t, last.Game.Matches(), 2)
	assert.NoError(t, c.Err())
	assert.False(t, c.IsConnected())
}

func TestNetworkClientDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewNetworkClient()
	err := c.Connect(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/live")
	assert.Error(t, err)
	assert.False(t, c.IsConnected())

	_, ok := <-c.Recv()
	assert.False(t, ok)
	c.Disconnect()
}
