package database

import "strings"

type migration struct {
	id   int
	name string
	sql  string
}

// statements splits the migration into single statements, adjusting the
// column types that differ between SQLite and PostgreSQL.
func (m migration) statements(d Dialect) []string {
	src := m.sql
	if d == Postgres {
		src = strings.NewReplacer(
			" BLOB", " BYTEA",
			" DATETIME", " TIMESTAMPTZ",
			"INTEGER PRIMARY KEY AUTOINCREMENT", "BIGSERIAL PRIMARY KEY",
		).Replace(src)
	}
	var out []string
	for _, stmt := range strings.Split(src, ";") {
		if s := strings.TrimSpace(stmt); s != "" && !isComment(s) {
			out = append(out, s)
		}
	}
	return out
}

func isComment(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" && !strings.HasPrefix(l, "--") {
			return false
		}
	}
	return true
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Replays: uploaded or produced replay files with a decoded summary
			CREATE TABLE replays (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				size INTEGER NOT NULL,
				match_count INTEGER NOT NULL,
				summary_json TEXT NOT NULL,
				data BLOB NOT NULL,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX idx_replays_created ON replays(created_at);

			-- Maps: exported map files
			CREATE TABLE maps (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				width INTEGER NOT NULL,
				height INTEGER NOT NULL,
				symmetry TEXT NOT NULL,
				data BLOB NOT NULL,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX idx_maps_name ON maps(name);

			-- Runs: matches played through the engine scaffold
			CREATE TABLE runs (
				id TEXT PRIMARY KEY,
				team_a TEXT NOT NULL,
				team_b TEXT NOT NULL,
				maps TEXT NOT NULL,
				profile BOOLEAN NOT NULL DEFAULT FALSE,
				status TEXT NOT NULL,
				replay_id TEXT REFERENCES replays(id) ON DELETE SET NULL,
				error TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				finished_at DATETIME
			);
			CREATE INDEX idx_runs_status ON runs(status);
		`,
	},
	{
		id:   2,
		name: "run_events",
		sql: `
			-- Run events: status changes and engine output of each run
			CREATE TABLE run_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				kind TEXT NOT NULL,
				message TEXT NOT NULL,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX idx_run_events_run ON run_events(run_id, id);
		`,
	},
}
