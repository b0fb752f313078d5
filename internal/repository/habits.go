package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

type habitRepository struct {
	db *sql.DB
}

// NewHabitRepository creates a SQLite-backed habit repository.
func NewHabitRepository(db *sql.DB) HabitRepository {
	return &habitRepository{db: db}
}

// GetHabitRecords returns records for the inclusive [start, end] date range,
// ordered by date then habit name. Callers union habit names across the whole
// result; the schema is never inferred from one record.
func (r *habitRepository) GetHabitRecords(ctx context.Context, start, end time.Time) ([]models.DailyHabitRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, habit_name, habit_value, value_kind
		FROM daily_habits
		WHERE date >= ? AND date <= ?
		ORDER BY date, habit_name
	`, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying habit records: %w", err)
	}
	defer rows.Close()

	var records []models.DailyHabitRecord
	for rows.Next() {
		var (
			rec     models.DailyHabitRecord
			dateStr string
			kind    sql.NullString
		)
		if err := rows.Scan(&dateStr, &rec.Name, &rec.Value, &kind); err != nil {
			return nil, fmt.Errorf("scanning habit record: %w", err)
		}
		if rec.Date, err = parseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parsing habit date %q: %w", dateStr, err)
		}
		if kind.Valid {
			rec.Kind = models.HabitKind(kind.String)
		} else {
			rec.Kind = models.HabitCounter
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertHabitRecord inserts or replaces one habit observation. Habit names
// are normalized to snake_case on the way in.
func (r *habitRepository) UpsertHabitRecord(ctx context.Context, rec models.DailyHabitRecord) error {
	name := NormalizeHabitName(rec.Name)
	if name == "" {
		return fmt.Errorf("habit record has an empty name")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_habits (date, habit_name, habit_value, value_kind, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date, habit_name) DO UPDATE SET
			habit_value = excluded.habit_value,
			value_kind = excluded.value_kind,
			updated_at = CURRENT_TIMESTAMP
	`, formatDate(rec.Date), name, rec.Value, string(rec.Kind))
	if err != nil {
		return fmt.Errorf("upserting habit %s for %s: %w", name, formatDate(rec.Date), err)
	}
	return nil
}

// NormalizeHabitName lowercases and converts spaces/dashes to underscores so
// the open-ended habit namespace stays consistent across sources.
func NormalizeHabitName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
