package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"battlecode-client/internal/database"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/protocol"
	"battlecode-client/internal/replay"
)

// streamFrames returns stream_start, one binary frame per event and
// stream_end.
func streamFrames(id, name string, g *playback.Game, summary *replay.Summary) ([]frame, error) {
	events, err := replay.EncodeEvents(g)
	if err != nil {
		return nil, err
	}
	start, err := textFrame(protocol.TypeStreamStart, protocol.StreamStartPayload{
		ReplayID: id,
		Name:     name,
		Events:   len(events),
		Summary:  summary,
	})
	if err != nil {
		return nil, err
	}
	end, err := textFrame(protocol.TypeStreamEnd, protocol.StreamEndPayload{ReplayID: id, Events: len(events)})
	if err != nil {
		return nil, err
	}

	frames := make([]frame, 0, len(events)+2)
	frames = append(frames, start)
	for _, ev := range events {
		frames = append(frames, binaryFrame(ev))
	}
	return append(frames, end), nil
}

// handleStreamReplay sends a stored replay event by event, pausing between
// events so the viewer can play it as it arrives. The interval_ms query
// parameter overrides the configured pause.
func (s *Server) handleStreamReplay(c *gin.Context) {
	data, err := s.db.GetReplayData(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	info, err := s.db.GetReplayInfo(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	g, err := replay.Decode(data)
	if err != nil {
		s.abort(c, http.StatusUnprocessableEntity, err)
		return
	}
	summary := replay.Summarize(g)
	frames, err := streamFrames(info.ID, info.Name, g, &summary)
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}

	interval := s.cfg.StreamInterval
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil && ms >= 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log := s.log.WithField("replay", info.ID)
	for i, f := range frames {
		if f.kind == websocket.BinaryMessage && i > 1 && tick != nil {
			select {
			case <-tick:
			case <-gone:
				log.Debug("viewer left mid-stream")
				return
			case <-s.ctx.Done():
				return
			}
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(f.kind, f.data); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				log.WithError(err).Debug("stream write failed")
			}
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"))
	log.WithField("events", len(frames)-2).Debug("replay streamed")
	select {
	case <-gone:
	case <-time.After(time.Second):
	}
}

// handleLive registers a viewer that receives run updates and finished
// replays.
func (s *Server) handleLive(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
