package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run is not found.
var ErrRunNotFound = errors.New("run not found")

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunQueued   RunStatus = "queued"
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
	RunFailed   RunStatus = "failed"
)

// Done reports whether the run has stopped.
func (s RunStatus) Done() bool {
	return s == RunFinished || s == RunFailed
}

// Run is one match request sent to the engine scaffold.
type Run struct {
	ID         string     `json:"id"`
	TeamA      string     `json:"team_a"`
	TeamB      string     `json:"team_b"`
	Maps       []string   `json:"maps"`
	Profile    bool       `json:"profile"`
	Status     RunStatus  `json:"status"`
	ReplayID   string     `json:"replay_id,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Run event kinds
const (
	EventStatus = "status"
	EventOutput = "output"
)

// RunEvent is one line of a run's history.
type RunEvent struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRun records a new queued run.
func (db *DB) CreateRun(teamA, teamB string, maps []string, profile bool) (*Run, error) {
	r := &Run{
		ID:        uuid.New().String(),
		TeamA:     teamA,
		TeamB:     teamB,
		Maps:      maps,
		Profile:   profile,
		Status:    RunQueued,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.exec(`
		INSERT INTO runs (id, team_a, team_b, maps, profile, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.TeamA, r.TeamB, strings.Join(maps, ","), r.Profile, r.Status, r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRunStatus moves a run to a new status. Finishing statuses also
// record the replay or the error and the finish time.
func (db *DB) UpdateRunStatus(id string, status RunStatus, replayID, errMsg string) error {
	var finished any
	if status.Done() {
		finished = time.Now().UTC()
	}
	var replay any
	if replayID != "" {
		replay = replayID
	}
	res, err := db.exec(`
		UPDATE runs SET status = ?, replay_id = COALESCE(?, replay_id), error = ?, finished_at = ?
		WHERE id = ?
	`, status, replay, errMsg, finished, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return db.AddRunEvent(id, EventStatus, string(status))
}

const runColumns = `id, team_a, team_b, maps, profile, status, replay_id, error, created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	r := &Run{}
	var maps string
	var replayID sql.NullString
	var finishedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.TeamA, &r.TeamB, &maps, &r.Profile, &r.Status, &replayID, &r.Error, &r.CreatedAt, &finishedAt); err != nil {
		return nil, err
	}
	if maps != "" {
		r.Maps = strings.Split(maps, ",")
	}
	r.ReplayID = replayID.String
	if finishedAt.Valid {
		r.FinishedAt = &finishedAt.Time
	}
	return r, nil
}

// GetRun retrieves a run.
func (db *DB) GetRun(id string) (*Run, error) {
	r, err := scanRun(db.queryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return r, err
}

// ListRuns returns runs, newest first.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.query("SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// AddRunEvent appends a line to a run's history.
func (db *DB) AddRunEvent(runID, kind, message string) error {
	_, err := db.exec(`
		INSERT INTO run_events (run_id, kind, message, created_at)
		VALUES (?, ?, ?, ?)
	`, runID, kind, message, time.Now().UTC())
	return err
}

// GetRunEvents retrieves the history of a run after the given event id,
// ordered chronologically. Pass 0 for the full history.
func (db *DB) GetRunEvents(runID string, afterID int64) ([]*RunEvent, error) {
	rows, err := db.query(`
		SELECT id, run_id, kind, message, created_at
		FROM run_events
		WHERE run_id = ? AND id > ?
		ORDER BY id ASC
	`, runID, afterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*RunEvent{}
	for rows.Next() {
		e := &RunEvent{}
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
