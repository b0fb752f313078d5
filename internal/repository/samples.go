package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

type sampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a SQLite-backed sample repository.
func NewSampleRepository(db *sql.DB) SampleRepository {
	return &sampleRepository{db: db}
}

// GetSamples returns samples for one metric in the half-open [start, end)
// range, ordered by timestamp ascending.
func (r *sampleRepository) GetSamples(ctx context.Context, kind models.MetricKind, start, end time.Time) ([]models.RawSample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT metric_kind, timestamp, value
		FROM samples
		WHERE metric_kind = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, string(kind), formatInstant(start), formatInstant(end))
	if err != nil {
		return nil, fmt.Errorf("querying %s samples: %w", kind, err)
	}
	defer rows.Close()

	var samples []models.RawSample
	for rows.Next() {
		var (
			k, ts string
			value float64
		)
		if err := rows.Scan(&k, &ts, &value); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		instant, err := parseInstant(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing sample timestamp %q: %w", ts, err)
		}
		samples = append(samples, models.RawSample{
			Kind:      models.MetricKind(k),
			Timestamp: instant,
			Value:     value,
		})
	}
	return samples, rows.Err()
}

// UpsertSamples inserts or replaces samples by (metric, timestamp) in one
// transaction. Re-syncing identical values is a no-op apart from updated_at.
func (r *sampleRepository) UpsertSamples(ctx context.Context, samples []models.RawSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (metric_kind, timestamp, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(metric_kind, timestamp) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if !s.Kind.Valid() {
			return fmt.Errorf("unknown metric kind %q", s.Kind)
		}
		if _, err := stmt.ExecContext(ctx, string(s.Kind), formatInstant(s.Timestamp), s.Value); err != nil {
			return fmt.Errorf("upserting %s sample at %s: %w", s.Kind, s.Timestamp, err)
		}
	}

	return tx.Commit()
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}
