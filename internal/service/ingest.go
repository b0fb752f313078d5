package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/repository"
	"github.com/hoombar/biosignal/internal/timewindow"
)

type ingestService struct {
	samples    repository.SampleRepository
	sleep      repository.SleepRepository
	activities repository.ActivityRepository
	habits     repository.HabitRepository
	features   FeatureService
	location   *time.Location
}

// NewIngestService creates an ingest service. Writes are idempotent upserts;
// each write invalidates the derived records for the dates it touches so
// re-syncing a day never leaves stale features behind.
func NewIngestService(
	samples repository.SampleRepository,
	sleep repository.SleepRepository,
	activities repository.ActivityRepository,
	habits repository.HabitRepository,
	features FeatureService,
	location *time.Location,
) IngestService {
	if location == nil {
		location = time.UTC
	}
	return &ingestService{
		samples:    samples,
		sleep:      sleep,
		activities: activities,
		habits:     habits,
		features:   features,
		location:   location,
	}
}

func (s *ingestService) IngestSamples(ctx context.Context, samples []models.RawSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	if err := s.samples.UpsertSamples(ctx, samples); err != nil {
		return 0, fmt.Errorf("failed to store samples: %w", err)
	}

	touched := make(map[time.Time]bool)
	for _, sample := range samples {
		touched[timewindow.LocalDate(sample.Timestamp, s.location)] = true
	}
	s.invalidate(touched)
	return len(samples), nil
}

func (s *ingestService) IngestSleepSession(ctx context.Context, session *models.SleepSession) error {
	if session == nil {
		return fmt.Errorf("sleep session is required")
	}
	if err := s.sleep.UpsertSleepSession(ctx, session); err != nil {
		return fmt.Errorf("failed to store sleep session: %w", err)
	}
	s.features.Invalidate(session.Date)
	return nil
}

func (s *ingestService) IngestActivities(ctx context.Context, activities []models.Activity) (int, error) {
	touched := make(map[time.Time]bool)
	for i := range activities {
		if err := s.activities.UpsertActivity(ctx, &activities[i]); err != nil {
			return 0, fmt.Errorf("failed to store activity %q: %w", activities[i].ExternalID, err)
		}
		day := timewindow.LocalDate(activities[i].StartTime, s.location)
		touched[day] = true
		// The session also feeds hours_since_training on following days.
		touched[day.AddDate(0, 0, 1)] = true
		touched[day.AddDate(0, 0, 2)] = true
	}
	s.invalidate(touched)
	return len(activities), nil
}

func (s *ingestService) IngestHabits(ctx context.Context, records []models.DailyHabitRecord) (int, error) {
	touched := make(map[time.Time]bool)
	for _, rec := range records {
		if err := s.habits.UpsertHabitRecord(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to store habit %q: %w", rec.Name, err)
		}
		touched[timewindow.LocalDate(rec.Date, time.UTC)] = true
	}
	s.invalidate(touched)
	return len(records), nil
}

func (s *ingestService) invalidate(dates map[time.Time]bool) {
	if len(dates) == 0 {
		return
	}
	list := make([]time.Time, 0, len(dates))
	for d := range dates {
		list = append(list, d)
	}
	s.features.Invalidate(list...)
}
