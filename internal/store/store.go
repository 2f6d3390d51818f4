// Package store persists teds.SampleEval rows from batch evaluation runs
// using modernc.org/sqlite, a pure-Go sqlite driver requiring no cgo,
// grounded on the same dependency in the pack's internal/store package.
// It is storage/retrieval only: computing dataset-level aggregate
// statistics over the rows it holds is explicitly out of scope (see
// internal/teds's Aggregate stub).
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docling-project/docling-metrics/internal/teds"
)

// Store wraps a sqlite-backed table of sample evaluations, each tagged
// with the run id of the teds-batch invocation that produced it.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the evaluations table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sample_evals (
		run_id      TEXT NOT NULL,
		sample_id   TEXT NOT NULL,
		error_id    INTEGER NOT NULL,
		error_msg   TEXT NOT NULL,
		tree_a_size INTEGER NOT NULL,
		tree_b_size INTEGER NOT NULL,
		teds        REAL NOT NULL,
		created_at  DATETIME NOT NULL,
		PRIMARY KEY (run_id, sample_id)
	)`)
	return err
}

// Insert persists eval under runID, overwriting any prior row with the
// same (runID, eval.ID) pair.
func (s *Store) Insert(runID string, eval teds.SampleEval) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sample_evals
		 (run_id, sample_id, error_id, error_msg, tree_a_size, tree_b_size, teds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, eval.ID, eval.ErrorID, eval.ErrorMsg, eval.TreeASize, eval.TreeBSize, eval.TEDS, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: insert sample %q: %w", eval.ID, err)
	}
	return nil
}

// Row is one persisted evaluation, read back out of the store.
type Row struct {
	RunID     string
	Eval      teds.SampleEval
	CreatedAt time.Time
}

// ListRun returns every row persisted under runID, ordered by sample id.
func (s *Store) ListRun(runID string) ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT run_id, sample_id, error_id, error_msg, tree_a_size, tree_b_size, teds, created_at
		 FROM sample_evals WHERE run_id = ? ORDER BY sample_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list run %q: %w", runID, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Eval.ID, &r.Eval.ErrorID, &r.Eval.ErrorMsg,
			&r.Eval.TreeASize, &r.Eval.TreeBSize, &r.Eval.TEDS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListAll returns every persisted row across every run, most recent first,
// the feed internal/tui browses.
func (s *Store) ListAll() ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT run_id, sample_id, error_id, error_msg, tree_a_size, tree_b_size, teds, created_at
		 FROM sample_evals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list all: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Eval.ID, &r.Eval.ErrorID, &r.Eval.ErrorMsg,
			&r.Eval.TreeASize, &r.Eval.TreeBSize, &r.Eval.TEDS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
