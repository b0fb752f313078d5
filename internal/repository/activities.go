package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a SQLite-backed activity repository.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// GetActivities returns activities whose start instant falls in the half-open
// [start, end) range, ordered by start time.
func (r *activityRepository) GetActivities(ctx context.Context, start, end time.Time) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT external_id, type, start_time, end_time,
			duration_seconds, avg_hr, max_hr, calories
		FROM activities
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time
	`, formatInstant(start), formatInstant(end))
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var (
			a                models.Activity
			startStr, endStr string
			duration         sql.NullInt64
			avgHR, maxHR     sql.NullInt64
			calories         sql.NullInt64
		)
		if err := rows.Scan(&a.ExternalID, &a.Type, &startStr, &endStr,
			&duration, &avgHR, &maxHR, &calories); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		if a.StartTime, err = parseInstant(startStr); err != nil {
			return nil, fmt.Errorf("parsing activity start %q: %w", startStr, err)
		}
		if a.EndTime, err = parseInstant(endStr); err != nil {
			return nil, fmt.Errorf("parsing activity end %q: %w", endStr, err)
		}
		a.DurationSeconds = nullInt(duration)
		a.AvgHR = nullInt(avgHR)
		a.MaxHR = nullInt(maxHR)
		a.Calories = nullInt(calories)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// UpsertActivity inserts or replaces an activity by its external ID.
func (r *activityRepository) UpsertActivity(ctx context.Context, a *models.Activity) error {
	if a.ExternalID == "" {
		return fmt.Errorf("activity is missing an external ID")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (
			external_id, type, start_time, end_time,
			duration_seconds, avg_hr, max_hr, calories, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(external_id) DO UPDATE SET
			type = excluded.type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_seconds = excluded.duration_seconds,
			avg_hr = excluded.avg_hr,
			max_hr = excluded.max_hr,
			calories = excluded.calories,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ExternalID, a.Type, formatInstant(a.StartTime), formatInstant(a.EndTime),
		a.DurationSeconds, a.AvgHR, a.MaxHR, a.Calories,
	)
	if err != nil {
		return fmt.Errorf("upserting activity %s: %w", a.ExternalID, err)
	}
	return nil
}
