package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abstat/abstat/internal/analyzer"
)

// SQLiteStore is the local warehouse of visit records. It implements
// analyzer.Source.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment TEXT NOT NULL,
    variation TEXT NOT NULL,
    visitor_id TEXT NOT NULL,
    converted INTEGER NOT NULL DEFAULT 0,
    revenue REAL NOT NULL DEFAULT 0,
    recorded_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_visits_experiment ON visits(experiment);
CREATE INDEX IF NOT EXISTS idx_visits_experiment_variation ON visits(experiment, variation);
CREATE UNIQUE INDEX IF NOT EXISTS idx_visits_dedup ON visits(experiment, variation, visitor_id);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordVisit inserts one visit. Repeated visits by the same visitor
// to the same experiment/variation are deduplicated via the unique
// index.
func (s *SQLiteStore) RecordVisit(ctx context.Context, v Visit) error {
	recordedAt := v.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO visits (experiment, variation, visitor_id, converted, revenue, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.Experiment, v.Variation, v.VisitorID, boolToInt(v.Converted), v.Revenue, recordedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}

	return nil
}

// InsertVisits writes a batch of visits in one transaction. Used by
// the CSV import path.
func (s *SQLiteStore) InsertVisits(ctx context.Context, visits []Visit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO visits (experiment, variation, visitor_id, converted, revenue, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, v := range visits {
		recordedAt := now
		if !v.RecordedAt.IsZero() {
			recordedAt = v.RecordedAt.Unix()
		}
		if _, err := stmt.ExecContext(ctx,
			v.Experiment, v.Variation, v.VisitorID, boolToInt(v.Converted), v.Revenue, recordedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// ListExperiments aggregates stored visits per experiment, sorted by
// name.
func (s *SQLiteStore) ListExperiments(ctx context.Context) ([]ExperimentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			experiment,
			COUNT(DISTINCT variation) as variations,
			COUNT(*) as visitors,
			SUM(converted) as conversions,
			SUM(revenue) as revenue
		FROM visits
		GROUP BY experiment
		ORDER BY experiment
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var stats []ExperimentStats
	for rows.Next() {
		var e ExperimentStats
		if err := rows.Scan(&e.Experiment, &e.Variations, &e.Visitors, &e.Conversions, &e.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan experiment stats: %w", err)
		}
		stats = append(stats, e)
	}

	return stats, rows.Err()
}

// Visits returns every stored visit as analyzer records, implementing
// analyzer.Source.
func (s *SQLiteStore) Visits(ctx context.Context) ([]analyzer.VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT experiment, variation, visitor_id, converted, revenue
		 FROM visits ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get visits: %w", err)
	}
	defer rows.Close()

	var records []analyzer.VisitRecord
	for rows.Next() {
		var r analyzer.VisitRecord
		var converted int
		if err := rows.Scan(&r.Experiment, &r.Variation, &r.VisitorID, &converted, &r.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		r.Converted = converted != 0
		records = append(records, r)
	}

	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
