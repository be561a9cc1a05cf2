package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/hupe1980/kmbench/jobscript"
	"github.com/hupe1980/kmbench/results"
)

// ErrRunNotFound is returned by Load for an unknown run id.
var ErrRunNotFound = errors.New("sqlstore: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
    run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    mode    TEXT NOT NULL,
    method  TEXT NOT NULL,
    scale   INTEGER NOT NULL,
    seq     INTEGER NOT NULL,
    seconds REAL NOT NULL,
    PRIMARY KEY(run_id, mode, method, scale, seq)
);`

// Store persists timing series in a SQLite database so runs can be
// compared after the log directories are gone.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run describes one saved run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Samples   int
}

// Open opens (and if needed creates) the database at dsn, e.g. a file
// path or "file::memory:".
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers and in-memory databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores series under runID, replacing a previous run with that id.
func (s *Store) Save(ctx context.Context, runID string, series results.Series) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("sqlstore: replace run %s: %w", runID, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (id, created_at) VALUES (?, ?)`, runID, s.now().UnixNano()); err != nil {
		return fmt.Errorf("sqlstore: insert run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (run_id, mode, method, scale, seq, seconds) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, key := range series.Keys() {
		for seq, v := range series[key] {
			if _, err = stmt.ExecContext(ctx, runID, string(key.Mode), string(key.Method), key.Scale, seq, v); err != nil {
				return fmt.Errorf("sqlstore: insert %s: %w", key, err)
			}
		}
	}
	return tx.Commit()
}

// Load returns the series saved under runID.
func (s *Store) Load(ctx context.Context, runID string) (results.Series, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT mode, method, scale, seconds FROM samples WHERE run_id = ? ORDER BY mode, method, scale, seq`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	series := make(results.Series)
	for rows.Next() {
		var (
			mode, method string
			key          results.Key
			v            float64
		)
		if err := rows.Scan(&mode, &method, &key.Scale, &v); err != nil {
			return nil, err
		}
		key.Mode, key.Method = jobscript.Mode(mode), jobscript.Method(method)
		series[key] = append(series[key], v)
	}
	return series, rows.Err()
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, COUNT(s.seq)
FROM runs r LEFT JOIN samples s ON s.run_id = r.id
GROUP BY r.id, r.created_at
ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			ns int64
		)
		if err := rows.Scan(&r.ID, &ns, &r.Samples); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(0, ns)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
