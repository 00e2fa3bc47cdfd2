// Package history persists completed optimization runs to SQLite so
// results survive across invocations and can be compared later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run is one completed optimization run.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Corpus     string
	Seed       int64
	Iterations int
	Chains     int
	TotalCost  float64
	BaseCost   float64
	SwipeCost  float64
	Layout     string // encoded best layout
}

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			corpus TEXT NOT NULL,
			seed INTEGER NOT NULL,
			iterations INTEGER NOT NULL,
			chains INTEGER NOT NULL,
			total_cost REAL NOT NULL,
			base_cost REAL NOT NULL,
			swipe_cost REAL NOT NULL,
			layout TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_total_cost ON runs(total_cost);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate history db: %w", err)
		}
	}
	return nil
}

// Insert stores a completed run.
func (s *Store) Insert(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, corpus, seed, iterations, chains, total_cost, base_cost, swipe_cost, layout)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.CreatedAt.Format(time.RFC3339Nano),
		r.Corpus,
		r.Seed,
		r.Iterations,
		r.Chains,
		r.TotalCost,
		r.BaseCost,
		r.SwipeCost,
		r.Layout,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, corpus, seed, iterations, chains, total_cost, base_cost, swipe_cost, layout
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Best returns the lowest-cost run on record.
func (s *Store) Best(ctx context.Context) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, corpus, seed, iterations, chains, total_cost, base_cost, swipe_cost, layout
		 FROM runs ORDER BY total_cost ASC LIMIT 1`)
	if err != nil {
		return Run{}, fmt.Errorf("query best run: %w", err)
	}
	defer rows.Close()
	runs, err := scanRuns(rows)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Corpus, &r.Seed, &r.Iterations, &r.Chains,
			&r.TotalCost, &r.BaseCost, &r.SwipeCost, &r.Layout); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		r.CreatedAt = t
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
