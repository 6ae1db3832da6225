// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ghosttype/ghosttype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			source TEXT NOT NULL,
			chars INTEGER NOT NULL,
			events INTEGER NOT NULL,
			typos INTEGER NOT NULL,
			corrections INTEGER NOT NULL,
			deletes INTEGER NOT NULL,
			simulated_ms INTEGER NOT NULL,
			wall_ms INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			min_delay_ms INTEGER NOT NULL,
			max_delay_ms INTEGER NOT NULL,
			typo_rate REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_bursts (
			run_id TEXT NOT NULL,
			length INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, length)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its correction burst histogram.
func (s *Store) InsertRun(ctx context.Context, rec model.RunRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, ended_at, source, chars, events, typos, corrections, deletes, simulated_ms, wall_ms, seed, min_delay_ms, max_delay_ms, typo_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Source,
		rec.Chars,
		rec.Events,
		rec.Typos,
		rec.Corrections,
		rec.Deletes,
		rec.SimulatedMs,
		rec.WallMs,
		int64(rec.Seed), // SQLite integers are signed.
		rec.MinDelayMs,
		rec.MaxDelayMs,
		rec.TypoRate,
	)
	if err != nil {
		return err
	}

	if len(rec.BurstLengths) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_bursts (run_id, length, count)
			 VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		lengths := make([]int, 0, len(rec.BurstLengths))
		for length := range rec.BurstLengths {
			lengths = append(lengths, length)
		}
		sort.Ints(lengths)
		for _, length := range lengths {
			if _, err := stmt.ExecContext(ctx, rec.ID, length, rec.BurstLengths[length]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns runs matching the filter, oldest first. Last is applied by
// the report layer so curves keep their chronological order.
func (s *Store) ListRuns(ctx context.Context, filter model.RunFilter) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, source, chars, events, typos, corrections, deletes, simulated_ms, wall_ms, seed, min_delay_ms, max_delay_ms, typo_rate
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var startedAt, endedAt string
		var seed int64
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.Source, &rec.Chars, &rec.Events, &rec.Typos, &rec.Corrections, &rec.Deletes, &rec.SimulatedMs, &rec.WallMs, &seed, &rec.MinDelayMs, &rec.MaxDelayMs, &rec.TypoRate); err != nil {
			return nil, err
		}
		rec.Seed = uint64(seed)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// BurstHistogram aggregates correction burst lengths across the given runs.
func (s *Store) BurstHistogram(ctx context.Context, runIDs []string) ([]model.BurstBucket, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(runIDs))
	args := make([]any, len(runIDs))
	for i, id := range runIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT length, SUM(count) AS count
		FROM run_bursts
		WHERE run_id IN (%s)
		GROUP BY length
		ORDER BY length ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var buckets []model.BurstBucket
	for rows.Next() {
		var b model.BurstBucket
		if err := rows.Scan(&b.Length, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}
