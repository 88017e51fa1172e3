// Package journal keeps an optional SQLite record of run outcomes. It stores
// no price data, only what happened on each invocation.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const initSQL = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS run (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		zone        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		status      TEXT NOT NULL,
		price_file  TEXT NOT NULL DEFAULT '',
		error       TEXT NOT NULL DEFAULT ''
	);
`

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Zone       string
	StartDate  string
	EndDate    string
	Status     string // "succeeded" or "failed"
	PriceFile  string
	Error      string
}

type Journal struct {
	logger *slog.Logger
	db     *sql.DB
}

func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error when opening journal: %w", err)
	}
	db.SetMaxOpenConns(1) // only a single writer ever, no concurrency
	db.SetConnMaxIdleTime(time.Minute)

	if _, err := db.ExecContext(ctx, initSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error when initializing journal: %w", err)
	}

	return &Journal{
		logger: slog.Default().With(slog.String("module", "journal")),
		db:     db,
	}, nil
}

func (j *Journal) SetLogger(logger *slog.Logger) {
	j.logger = logger
}

func (j *Journal) Close() {
	j.db.Close()
}

func (j *Journal) Record(ctx context.Context, r Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO run (id, started_at, finished_at, zone, start_date, end_date, status, price_file, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Zone,
		r.StartDate,
		r.EndDate,
		r.Status,
		r.PriceFile,
		r.Error)
	if err != nil {
		return fmt.Errorf("error when recording run: %w", err)
	}

	j.logger.Debug("run recorded", slog.String("id", r.ID), slog.String("status", r.Status))
	return nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, zone, start_date, end_date, status, price_file, error
		FROM run
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error when fetching runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.Zone, &r.StartDate, &r.EndDate, &r.Status, &r.PriceFile, &r.Error); err != nil {
			return nil, fmt.Errorf("error when scanning run row: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
