// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/hanmaum/pairo/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for settings and the round log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			ended_at TEXT NOT NULL,
			level TEXT NOT NULL,
			success INTEGER NOT NULL,
			seconds INTEGER,
			moves INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadValue returns the stored value for key, reporting presence.
func (s *Store) LoadValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SaveValue stores or replaces the value for key.
func (s *Store) SaveValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// InsertRound appends a finished round to the log.
func (s *Store) InsertRound(ctx context.Context, res model.RoundResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (ended_at, level, success, seconds, moves)
		 VALUES (?, ?, ?, ?, ?)`,
		res.EndedAt.Format(time.RFC3339Nano),
		res.LevelID,
		res.Success,
		res.Seconds,
		res.Moves,
	)
	return err
}

// ListRounds returns logged rounds in chronological order, filtered by
// the stats config.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ended_at, level, success, seconds, moves
		 FROM rounds
		 WHERE (? = '' OR level = ?)
		 ORDER BY ended_at ASC, id ASC`,
		cfg.Level, cfg.Level)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundResult
	for rows.Next() {
		var res model.RoundResult
		var endedAt string
		var seconds, moves sql.NullInt64
		if err := rows.Scan(&endedAt, &res.LevelID, &res.Success, &seconds, &moves); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		res.EndedAt = parsed
		if seconds.Valid {
			v := int(seconds.Int64)
			res.Seconds = &v
		}
		if moves.Valid {
			v := int(moves.Int64)
			res.Moves = &v
		}
		rounds = append(rounds, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	return rounds, nil
}
