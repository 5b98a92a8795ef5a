// Package leaderboard persists finished runs in SQLite.
package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one finished life of an avatar.
type Run struct {
	PlayerID string    `json:"player_id"`
	Name     string    `json:"name"`
	Orbs     int       `json:"orbs"`
	Turns    int       `json:"turns"`
	Stage    string    `json:"stage"`
	Outcome  string    `json:"outcome"`
	EndedAt  time.Time `json:"ended_at"`
}

// Store is a SQLite-backed run table.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("leaderboard: empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			name TEXT NOT NULL,
			orbs INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			stage TEXT NOT NULL,
			outcome TEXT NOT NULL,
			ended_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_rank ON runs(orbs DESC, turns ASC);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts a run.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(player_id,name,orbs,turns,stage,outcome,ended_at) VALUES(?,?,?,?,?,?,?)`,
		r.PlayerID, r.Name, r.Orbs, r.Turns, r.Stage, r.Outcome, r.EndedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("leaderboard: record: %w", err)
	}
	return nil
}

// Top returns the best n runs: most orbs first, then fewest turns, then
// earliest finish.
func (s *Store) Top(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id,name,orbs,turns,stage,outcome,ended_at FROM runs
		ORDER BY orbs DESC, turns ASC, ended_at ASC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r     Run
			ended int64
		)
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.Orbs, &r.Turns, &r.Stage, &r.Outcome, &ended); err != nil {
			return nil, fmt.Errorf("leaderboard: scan: %w", err)
		}
		r.EndedAt = time.UnixMilli(ended).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
