package protocol

import "battlecode-client/internal/replay"

// WelcomePayload is sent when a websocket connects.
type WelcomePayload struct {
	ServerVersion string `json:"server_version"`
	SpecVersion   string `json:"spec_version,omitempty"`
}

// StreamStartPayload announces a replay stream. Events binary frames follow,
// each a finished EventWrapper buffer.
type StreamStartPayload struct {
	ReplayID string          `json:"replay_id"`
	Name     string          `json:"name"`
	Events   int             `json:"events"`
	Summary  *replay.Summary `json:"summary,omitempty"`
}

// StreamEndPayload closes a replay stream.
type StreamEndPayload struct {
	ReplayID string `json:"replay_id"`
	Events   int    `json:"events"`
}

// RunStatusPayload reports a run state change.
type RunStatusPayload struct {
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	ReplayID string `json:"replay_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RunOutputPayload carries one line of engine output.
type RunOutputPayload struct {
	RunID string `json:"run_id"`
	Line  string `json:"line"`
}
