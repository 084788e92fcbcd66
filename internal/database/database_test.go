package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM runs WHERE id = ?", "SELECT * FROM runs WHERE id = $1"},
		{"INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, rebindDollar(tt.in))
		})
	}

	sqlite := &DB{dialect: SQLite}
	assert.Equal(t, "a = ?", sqlite.rebind("a = ?"))
}

func TestMigrationStatements(t *testing.T) {
	m := migrations[0]
	lite := m.statements(SQLite)
	pg := m.statements(Postgres)
	require.Len(t, pg, len(lite))
	for _, stmt := range pg {
		assert.NotContains(t, stmt, "BLOB")
		assert.NotContains(t, stmt, "DATETIME")
	}
	assert.Contains(t, migrations[1].statements(Postgres)[0], "BIGSERIAL PRIMARY KEY")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(path)
	require.NoError(t, err)
	_, err = db.SaveMap("keep", 20, 20, "rotational", []byte{1})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	maps, err := db.ListMaps()
	require.NoError(t, err)
	assert.Len(t, maps, 1)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	assert.Error(t, err)
}

func TestReplays(t *testing.T) {
	db := newTestDB(t)
	data := []byte{0x1f, 0x8b, 0, 1, 2, 3}

	saved, err := db.SaveReplay("scrimmage.bc23", data, 3, `{"matches":[]}`)
	require.NoError(t, err)
	assert.Equal(t, len(data), saved.Size)

	info, err := db.GetReplayInfo(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "scrimmage.bc23", info.Name)
	assert.Equal(t, 3, info.MatchCount)
	assert.Equal(t, `{"matches":[]}`, info.SummaryJSON)
	assert.WithinDuration(t, saved.CreatedAt, info.CreatedAt, time.Second)

	got, err := db.GetReplayData(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = db.SaveReplay("second.bc23", []byte{9}, 1, "{}")
	require.NoError(t, err)
	list, err := db.ListReplays(0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	list, err = db.ListReplays(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, db.DeleteReplay(saved.ID))
	_, err = db.GetReplayInfo(saved.ID)
	assert.ErrorIs(t, err, ErrReplayNotFound)
	_, err = db.GetReplayData(saved.ID)
	assert.ErrorIs(t, err, ErrReplayNotFound)
	assert.ErrorIs(t, db.DeleteReplay(saved.ID), ErrReplayNotFound)
}

func TestMaps(t *testing.T) {
	db := newTestDB(t)
	b, err := db.SaveMap("b-map", 30, 30, "rotational", []byte("bb"))
	require.NoError(t, err)
	_, err = db.SaveMap("a-map", 20, 40, "vertical", []byte("aa"))
	require.NoError(t, err)

	list, err := db.ListMaps()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-map", list[0].Name)
	assert.Equal(t, 40, list[0].Height)

	info, data, err := db.GetMap(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotational", info.Symmetry)
	assert.Equal(t, []byte("bb"), data)

	require.NoError(t, db.DeleteMap(b.ID))
	_, _, err = db.GetMap(b.ID)
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestRuns(t *testing.T) {
	db := newTestDB(t)
	run, err := db.CreateRun("examplefuncsplayer", "botty", []string{"DefaultMap", "AllElements"}, true)
	require.NoError(t, err)
	assert.Equal(t, RunQueued, run.Status)

	require.NoError(t, db.UpdateRunStatus(run.ID, RunRunning, "", ""))
	require.NoError(t, db.AddRunEvent(run.ID, EventOutput, "[server] Match starting"))

	replay, err := db.SaveReplay("run.bc23", []byte{1}, 2, "{}")
	require.NoError(t, err)
	require.NoError(t, db.UpdateRunStatus(run.ID, RunFinished, replay.ID, ""))

	got, err := db.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunFinished, got.Status)
	assert.Equal(t, replay.ID, got.ReplayID)
	assert.Equal(t, []string{"DefaultMap", "AllElements"}, got.Maps)
	assert.True(t, got.Profile)
	require.NotNil(t, got.FinishedAt)

	events, err := db.GetRunEvents(run.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, EventStatus, events[0].Kind)
	assert.Equal(t, string(RunRunning), events[0].Message)
	assert.Equal(t, EventOutput, events[1].Kind)

	later, err := db.GetRunEvents(run.ID, events[1].ID)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, string(RunFinished), later[0].Message)

	failed, err := db.CreateRun("a", "b", nil, false)
	require.NoError(t, err)
	require.NoError(t, db.UpdateRunStatus(failed.ID, RunFailed, "", "gradle exited 1"))
	got, err = db.GetRun(failed.ID)
	require.NoError(t, err)
	assert.Equal(t, "gradle exited 1", got.Error)
	assert.Empty(t, got.ReplayID)
	assert.Nil(t, got.Maps)

	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, err = db.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, db.UpdateRunStatus("missing", RunRunning, "", ""), ErrRunNotFound)
}
