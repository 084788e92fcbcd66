package remote

import (
	"errors"
	"fmt"

	"battlecode-client/internal/playback"
	"battlecode-client/internal/protocol"
	"battlecode-client/internal/replay"
)

var (
	ErrNoStream   = errors.New("replay event outside a stream")
	ErrIncomplete = errors.New("stream ended before the game footer")
)

// UpdateKind tags what a frame changed.
type UpdateKind int

const (
	UpdateNone UpdateKind = iota
	UpdateWelcome
	UpdateStarted
	UpdateEvent
	UpdateFinished
	UpdateRunStatus
	UpdateRunOutput
	UpdateServerError
)

// Update is the result of applying one frame.
type Update struct {
	Kind UpdateKind

	// Stream updates. Match is the match still receiving rounds, or the
	// game's current match once the stream has finished.
	Game     *playback.Game
	Match    *playback.Match
	ReplayID string
	Summary  *replay.Summary

	// Server updates
	Version string
	Run     protocol.RunStatusPayload
	Line    string
	Err     error
}

// Receiver assembles streamed replays. It is owned by one goroutine.
type Receiver struct {
	builder *replay.Builder
	start   protocol.StreamStartPayload
}

// NewReceiver creates an idle receiver.
func NewReceiver() *Receiver {
	return &Receiver{}
}

// Streaming reports whether a stream is in progress.
func (r *Receiver) Streaming() bool { return r.builder != nil }

// Apply feeds one frame. A broken stream is discarded and reported as an
// error; later frames start over with the next stream_start.
func (r *Receiver) Apply(f Frame) (Update, error) {
	if f.Message == nil {
		return r.event(f.Binary)
	}

	msg := f.Message
	switch msg.Type {
	case protocol.TypeWelcome:
		var p protocol.WelcomePayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		return Update{Kind: UpdateWelcome, Version: p.ServerVersion}, nil

	case protocol.TypeStreamStart:
		var p protocol.StreamStartPayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		r.builder = replay.NewBuilder()
		r.start = p
		return Update{Kind: UpdateStarted, Game: r.builder.Game(), ReplayID: p.ReplayID, Summary: p.Summary}, nil

	case protocol.TypeStreamEnd:
		var p protocol.StreamEndPayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		return r.finish(p)

	case protocol.TypeRunStatus:
		var p protocol.RunStatusPayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		return Update{Kind: UpdateRunStatus, Run: p}, nil

	case protocol.TypeRunOutput:
		var p protocol.RunOutputPayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		return Update{Kind: UpdateRunOutput, Line: p.Line, Run: protocol.RunStatusPayload{RunID: p.RunID}}, nil

	case protocol.TypeError:
		var p protocol.ErrorPayload
		if err := msg.ParsePayload(&p); err != nil {
			return Update{}, err
		}
		return Update{Kind: UpdateServerError, Err: fmt.Errorf("server: %s: %s", p.Code, p.Message)}, nil
	}
	return Update{}, nil
}

func (r *Receiver) event(data []byte) (Update, error) {
	if r.builder == nil {
		return Update{}, ErrNoStream
	}
	if err := r.builder.AddEvent(data); err != nil {
		r.builder = nil
		return Update{}, err
	}
	return Update{
		Kind:     UpdateEvent,
		Game:     r.builder.Game(),
		Match:    r.builder.CurrentMatch(),
		ReplayID: r.start.ReplayID,
	}, nil
}

func (r *Receiver) finish(end protocol.StreamEndPayload) (Update, error) {
	b := r.builder
	r.builder = nil
	if b == nil {
		return Update{}, ErrNoStream
	}
	if !b.Done() {
		return Update{}, ErrIncomplete
	}
	if end.Events != b.Events() {
		return Update{}, fmt.Errorf("%w: got %d of %d events", ErrIncomplete, b.Events(), end.Events)
	}
	return Update{
		Kind:     UpdateFinished,
		Game:     b.Game(),
		Match:    b.Game().CurrentMatch(),
		ReplayID: end.ReplayID,
		Summary:  r.start.Summary,
	}, nil
}
