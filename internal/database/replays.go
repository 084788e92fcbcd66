package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrReplayNotFound is returned when a replay is not found.
var ErrReplayNotFound = errors.New("replay not found")

// ReplayInfo describes a stored replay without its data.
type ReplayInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int       `json:"size"`
	MatchCount  int       `json:"match_count"`
	SummaryJSON string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveReplay stores a replay file with its summary.
func (db *DB) SaveReplay(name string, data []byte, matchCount int, summaryJSON string) (*ReplayInfo, error) {
	r := &ReplayInfo{
		ID:          uuid.New().String(),
		Name:        name,
		Size:        len(data),
		MatchCount:  matchCount,
		SummaryJSON: summaryJSON,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := db.exec(`
		INSERT INTO replays (id, name, size, match_count, summary_json, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.Size, r.MatchCount, r.SummaryJSON, data, r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetReplayInfo retrieves a replay's metadata.
func (db *DB) GetReplayInfo(id string) (*ReplayInfo, error) {
	r := &ReplayInfo{}
	err := db.queryRow(`
		SELECT id, name, size, match_count, summary_json, created_at
		FROM replays WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &r.Size, &r.MatchCount, &r.SummaryJSON, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReplayNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetReplayData retrieves a replay file.
func (db *DB) GetReplayData(id string) ([]byte, error) {
	var data []byte
	err := db.queryRow("SELECT data FROM replays WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReplayNotFound
	}
	return data, err
}

// ListReplays returns stored replays, newest first.
func (db *DB) ListReplays(limit int) ([]*ReplayInfo, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.query(`
		SELECT id, name, size, match_count, summary_json, created_at
		FROM replays
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replays := []*ReplayInfo{}
	for rows.Next() {
		r := &ReplayInfo{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Size, &r.MatchCount, &r.SummaryJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		replays = append(replays, r)
	}
	return replays, rows.Err()
}

// DeleteReplay removes a replay.
func (db *DB) DeleteReplay(id string) error {
	res, err := db.exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrReplayNotFound
	}
	return nil
}
