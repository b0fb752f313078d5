package repository

import (
	"context"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// SampleRepository defines access to raw time-series samples. Reads return
// samples ordered by timestamp ascending; writes are idempotent upserts keyed
// by (metric kind, timestamp).
type SampleRepository interface {
	GetSamples(ctx context.Context, kind models.MetricKind, start, end time.Time) ([]models.RawSample, error)
	UpsertSamples(ctx context.Context, samples []models.RawSample) error
}

// SleepRepository defines access to per-date sleep sessions. GetSleepSession
// returns (nil, nil) when no session exists for the date.
type SleepRepository interface {
	GetSleepSession(ctx context.Context, date time.Time) (*models.SleepSession, error)
	UpsertSleepSession(ctx context.Context, session *models.SleepSession) error
}

// ActivityRepository defines access to training activities, keyed by their
// external ID and queried by start-instant range.
type ActivityRepository interface {
	GetActivities(ctx context.Context, start, end time.Time) ([]models.Activity, error)
	UpsertActivity(ctx context.Context, activity *models.Activity) error
}

// HabitRepository defines access to daily habit records. Reads cover an
// inclusive date range and return records ordered by (date, name) so callers
// can union habit names across the whole range.
type HabitRepository interface {
	GetHabitRecords(ctx context.Context, start, end time.Time) ([]models.DailyHabitRecord, error)
	UpsertHabitRecord(ctx context.Context, record models.DailyHabitRecord) error
}
