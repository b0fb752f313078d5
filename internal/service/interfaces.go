package service

import (
	"context"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// FeatureService defines the interface for derived daily feature records
type FeatureService interface {
	GetDaily(ctx context.Context, date time.Time) (*models.DailyFeatureRecord, error)
	GetRange(ctx context.Context, start, end time.Time) ([]*models.DailyFeatureRecord, error)
	Invalidate(dates ...time.Time)
	InvalidateAll()
}

// AnalysisService defines the interface for correlation and pattern analysis
type AnalysisService interface {
	Correlations(ctx context.Context, target string, minDays int) (*models.CorrelationReport, error)
	Patterns(ctx context.Context, target string) ([]models.PatternResult, error)
	Insights(ctx context.Context, target string) ([]models.InsightResult, error)
}

// IngestService defines the interface for writing raw data into the store
type IngestService interface {
	IngestSamples(ctx context.Context, samples []models.RawSample) (int, error)
	IngestSleepSession(ctx context.Context, session *models.SleepSession) error
	IngestActivities(ctx context.Context, activities []models.Activity) (int, error)
	IngestHabits(ctx context.Context, records []models.DailyHabitRecord) (int, error)
}
