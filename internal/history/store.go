// Package history persists a journal of maintenance runs backed by
// SQLite. The journal is diagnostic only: writes are best effort and a
// missing or broken journal never affects maintenance itself.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"texkit/internal/maintenance"
)

// Store manages journal persistence.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS maintenance_runs (
    id          TEXT PRIMARY KEY,
    scope       TEXT NOT NULL,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    outcomes    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_maintenance_runs_started ON maintenance_runs(started_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply journal schema: %w", err)
	}
	return nil
}

// Record inserts one maintenance run.
func (s *Store) Record(ctx context.Context, rec maintenance.RunRecord) error {
	outcomes, err := json.Marshal(rec.Outcomes)
	if err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO maintenance_runs (id, scope, started_at, finished_at, outcomes) VALUES (?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Scope,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		string(outcomes),
	)
	if err != nil {
		return fmt.Errorf("insert maintenance run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]maintenance.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scope, started_at, finished_at, outcomes FROM maintenance_runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query maintenance runs: %w", err)
	}
	defer rows.Close()

	var records []maintenance.RunRecord
	for rows.Next() {
		var (
			rec                 maintenance.RunRecord
			startedAt, finished string
			encodedOutcomes     string
		)
		if err := rows.Scan(&rec.ID, &rec.Scope, &startedAt, &finished, &encodedOutcomes); err != nil {
			return nil, fmt.Errorf("scan maintenance run: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		if err := json.Unmarshal([]byte(encodedOutcomes), &rec.Outcomes); err != nil {
			return nil, fmt.Errorf("decode outcomes: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Path returns the journal database path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ maintenance.RunRecorder = (*Store)(nil)
