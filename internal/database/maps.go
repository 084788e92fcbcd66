package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMapNotFound is returned when a map is not found.
var ErrMapNotFound = errors.New("map not found")

// MapInfo describes a stored map file.
type MapInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Symmetry  string    `json:"symmetry"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMap stores an exported map file.
func (db *DB) SaveMap(name string, width, height int, symmetry string, data []byte) (*MapInfo, error) {
	m := &MapInfo{
		ID:        uuid.New().String(),
		Name:      name,
		Width:     width,
		Height:    height,
		Symmetry:  symmetry,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.exec(`
		INSERT INTO maps (id, name, width, height, symmetry, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Width, m.Height, m.Symmetry, data, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMap retrieves a map's metadata and file.
func (db *DB) GetMap(id string) (*MapInfo, []byte, error) {
	m := &MapInfo{}
	var data []byte
	err := db.queryRow(`
		SELECT id, name, width, height, symmetry, data, created_at
		FROM maps WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Width, &m.Height, &m.Symmetry, &data, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrMapNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return m, data, nil
}

// ListMaps returns stored maps sorted by name.
func (db *DB) ListMaps() ([]*MapInfo, error) {
	rows, err := db.query(`
		SELECT id, name, width, height, symmetry, created_at
		FROM maps
		ORDER BY name, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*MapInfo{}
	for rows.Next() {
		m := &MapInfo{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Width, &m.Height, &m.Symmetry, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMap removes a map.
func (db *DB) DeleteMap(id string) error {
	res, err := db.exec("DELETE FROM maps WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMapNotFound
	}
	return nil
}
