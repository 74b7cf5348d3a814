// Package history archives finished countdown runs in SQLite, so run
// outcomes survive process restarts and stay queryable across sessions.
package history

//go:generate errtrace -w .

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"braces.dev/errtrace"
	_ "modernc.org/sqlite" // SQLite driver registration

	"github.com/tickworks/countdown"
)

// ErrNotFound is returned when no archived run matches the query.
const ErrNotFound = countdown.Error("run not found")

// Store is a SQLite-backed archive of finished runs. Safe for
// concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenStore opens or creates a run archive at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("opening database: %w", err))
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, errtrace.Wrap(err)
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL,
			outcome      TEXT NOT NULL,
			duration_ms  INTEGER NOT NULL,
			interval_ms  INTEGER NOT NULL,
			auto_start   INTEGER NOT NULL,
			emit_events  INTEGER NOT NULL,
			remaining_ms INTEGER NOT NULL,
			ended_at     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_id ON runs(id);
		CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);
	`)
	return errtrace.Wrap(err)
}

// Append archives a finished run. Runs are stored with millisecond
// precision.
func (s *Store) Append(run countdown.FinishedRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, outcome, duration_ms, interval_ms, auto_start, emit_events, remaining_ms, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Outcome),
		run.Config.Duration.Milliseconds(), run.Config.Interval.Milliseconds(),
		run.Config.AutoStart, run.Config.EmitEvents,
		run.Remaining.Milliseconds(), run.EndedAt.Format(time.RFC3339Nano))
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("inserting run: %w", err))
	}
	return nil
}

// Last returns the most recently archived run of an engine.
// It returns [ErrNotFound] when the engine has no archived runs.
func (s *Store) Last(engineID string) (countdown.FinishedRun, error) {
	row := s.db.QueryRow(`
		SELECT id, outcome, duration_ms, interval_ms, auto_start, emit_events, remaining_ms, ended_at
		FROM runs WHERE id = ?
		ORDER BY seq DESC LIMIT 1
	`, engineID)

	return errtrace.Wrap2(scanRun(row))
}

// Runs returns all archived runs of an engine in archive order.
func (s *Store) Runs(engineID string) ([]countdown.FinishedRun, error) {
	rows, err := s.db.Query(`
		SELECT id, outcome, duration_ms, interval_ms, auto_start, emit_events, remaining_ms, ended_at
		FROM runs WHERE id = ?
		ORDER BY seq
	`, engineID)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("querying runs: %w", err))
	}
	defer rows.Close()

	return errtrace.Wrap2(collectRuns(rows))
}

// Recent returns up to limit archived runs, most recent first.
func (s *Store) Recent(limit int) ([]countdown.FinishedRun, error) {
	rows, err := s.db.Query(`
		SELECT id, outcome, duration_ms, interval_ms, auto_start, emit_events, remaining_ms, ended_at
		FROM runs
		ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("querying recent runs: %w", err))
	}
	defer rows.Close()

	return errtrace.Wrap2(collectRuns(rows))
}

// Count returns the total number of archived runs.
func (s *Store) Count() uint64 {
	var count uint64
	s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count)
	return count
}

// Close closes the database connection.
func (s *Store) Close() error {
	return errtrace.Wrap(s.db.Close())
}

func scanRun(row *sql.Row) (countdown.FinishedRun, error) {
	var (
		run                 countdown.FinishedRun
		durMS, intMS, remMS int64
		endedAt             string
	)
	err := row.Scan(&run.ID, &run.Outcome, &durMS, &intMS,
		&run.Config.AutoStart, &run.Config.EmitEvents, &remMS, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return countdown.FinishedRun{}, errtrace.Wrap(ErrNotFound)
	}
	if err != nil {
		return countdown.FinishedRun{}, errtrace.Wrap(fmt.Errorf("scanning run: %w", err))
	}

	return restoreRun(run, durMS, intMS, remMS, endedAt), nil
}

func collectRuns(rows *sql.Rows) ([]countdown.FinishedRun, error) {
	var runs []countdown.FinishedRun
	for rows.Next() {
		var (
			run                 countdown.FinishedRun
			durMS, intMS, remMS int64
			endedAt             string
		)
		err := rows.Scan(&run.ID, &run.Outcome, &durMS, &intMS,
			&run.Config.AutoStart, &run.Config.EmitEvents, &remMS, &endedAt)
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("scanning run: %w", err))
		}
		runs = append(runs, restoreRun(run, durMS, intMS, remMS, endedAt))
	}
	return runs, errtrace.Wrap(rows.Err())
}

func restoreRun(run countdown.FinishedRun, durMS, intMS, remMS int64, endedAt string) countdown.FinishedRun {
	run.Config.Duration = time.Duration(durMS) * time.Millisecond
	run.Config.Interval = time.Duration(intMS) * time.Millisecond
	run.Remaining = time.Duration(remMS) * time.Millisecond
	run.EndedAt, _ = time.Parse(time.RFC3339Nano, endedAt)
	return run
}
