package features

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoombar/biosignal/internal/models"
)

type fakeSampleRepo struct {
	samples []models.RawSample
	// failKinds makes reads for specific metrics error while the rest of
	// the store stays healthy.
	failKinds map[models.MetricKind]bool
}

func (f *fakeSampleRepo) GetSamples(_ context.Context, kind models.MetricKind, start, end time.Time) ([]models.RawSample, error) {
	if f.failKinds[kind] {
		return nil, errors.New("read failed")
	}
	var out []models.RawSample
	for _, s := range f.samples {
		if s.Kind == kind && !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSampleRepo) UpsertSamples(context.Context, []models.RawSample) error { return nil }

type fakeSleepRepo struct {
	sessions map[string]*models.SleepSession
	err      error
}

func (f *fakeSleepRepo) GetSleepSession(_ context.Context, date time.Time) (*models.SleepSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[date.Format(models.DateLayout)], nil
}

func (f *fakeSleepRepo) UpsertSleepSession(context.Context, *models.SleepSession) error { return nil }

type fakeActivityRepo struct {
	activities []models.Activity
}

func (f *fakeActivityRepo) GetActivities(_ context.Context, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.activities {
		if !a.StartTime.Before(start) && a.StartTime.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) UpsertActivity(context.Context, *models.Activity) error { return nil }

type fakeHabitRepo struct {
	records []models.DailyHabitRecord
}

func (f *fakeHabitRepo) GetHabitRecords(_ context.Context, start, end time.Time) ([]models.DailyHabitRecord, error) {
	var out []models.DailyHabitRecord
	for _, r := range f.records {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) UpsertHabitRecord(context.Context, models.DailyHabitRecord) error { return nil }

func populatedAssembler() (*Assembler, *fakeSampleRepo, *fakeSleepRepo) {
	date := testDate()
	wake := time.Date(2025, 6, 2, 6, 30, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)

	sleeps := &fakeSleepRepo{sessions: map[string]*models.SleepSession{
		date.Format(models.DateLayout): {
			Date:              date,
			SleepStart:        timePtr(start),
			SleepEnd:          timePtr(wake),
			TotalSleepSeconds: intPtr(21600),
			SleepScore:        intPtr(75),
		},
	}}

	samples := &fakeSampleRepo{samples: []models.RawSample{
		{Kind: models.MetricHRV, Timestamp: start.Add(time.Hour), Value: 42},
		{Kind: models.MetricHRV, Timestamp: start.Add(2 * time.Hour), Value: 48},
		sampleAt(models.MetricHeartRate, 8, 0, 62),
		sampleAt(models.MetricHeartRate, 8, 10, 66),
		sampleAt(models.MetricBodyBattery, 9, 0, 70),
		sampleAt(models.MetricStress, 13, 0, 35),
		sampleAt(models.MetricStress, 13, 15, 55),
		sampleAt(models.MetricSteps, 10, 0, 4200),
	}}

	activities := &fakeActivityRepo{activities: []models.Activity{{
		ExternalID: "act-1",
		Type:       "running",
		StartTime:  time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 2, 7, 45, 0, 0, time.UTC),
		AvgHR:      intPtr(140),
	}}}

	habits := &fakeHabitRepo{records: []models.DailyHabitRecord{
		{Date: date, Name: "coffee_count", Value: "2", Kind: models.HabitCounter},
	}}

	a := NewAssembler(samples, sleeps, activities, habits, DefaultConfig(time.UTC))
	return a, samples, sleeps
}

func TestAssembleMergesAllFamilies(t *testing.T) {
	a, _, _ := populatedAssembler()

	record := a.Assemble(context.Background(), testDate())
	require.NotNil(t, record)

	assert.InDelta(t, 6.0, record.Features["sleep_hours"], 1e-9)
	assert.InDelta(t, 45.0, record.Features["hrv_overnight_avg"], 1e-9)
	assert.InDelta(t, 64.0, record.Features["hr_morning_avg"], 1e-9)
	assert.InDelta(t, 70.0, record.Features["bb_9am"], 1e-9)
	assert.InDelta(t, 45.0, record.Features["stress_2pm_window"], 1e-9)
	assert.InDelta(t, 4200.0, record.Features["steps_total"], 1e-9)
	assert.InDelta(t, 1.0, record.Features["had_training"], 1e-9)
	assert.Equal(t, "running", record.Labels["training_type"])
	assert.InDelta(t, 2.0, record.Habits["coffee_count"], 1e-9)
}

func TestAssembleDeterministic(t *testing.T) {
	a, _, _ := populatedAssembler()

	first := a.Assemble(context.Background(), testDate())
	second := a.Assemble(context.Background(), testDate())

	assert.Equal(t, first.Features, second.Features)
	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Habits, second.Habits)
}

func TestAssembleIsolatesFamilyFailures(t *testing.T) {
	a, samples, _ := populatedAssembler()
	samples.failKinds = map[models.MetricKind]bool{models.MetricStress: true}

	record := a.Assemble(context.Background(), testDate())

	assert.NotContains(t, record.Features, "stress_2pm_window")
	assert.NotContains(t, record.Features, "stress_coverage_pct")
	// Everything else still derives.
	assert.Contains(t, record.Features, "sleep_hours")
	assert.Contains(t, record.Features, "hr_morning_avg")
	assert.Contains(t, record.Features, "steps_total")
}

func TestAssembleSurvivesSleepStoreFailure(t *testing.T) {
	a, _, sleeps := populatedAssembler()
	sleeps.err = errors.New("store offline")

	record := a.Assemble(context.Background(), testDate())

	assert.NotContains(t, record.Features, "sleep_hours")
	assert.NotContains(t, record.Features, "hrv_overnight_avg", "overnight window needs the session")
	assert.Contains(t, record.Features, "hr_morning_avg")
	assert.Contains(t, record.Features, "had_training")
}

func TestAssembleEmptyDateStillYieldsRecord(t *testing.T) {
	a := NewAssembler(&fakeSampleRepo{}, &fakeSleepRepo{}, &fakeActivityRepo{}, &fakeHabitRepo{}, DefaultConfig(time.UTC))

	record := a.Assemble(context.Background(), testDate())
	require.NotNil(t, record)

	// No raw data; only the unconditional training flag is emitted.
	assert.InDelta(t, 0.0, record.Features["had_training"], 1e-9)
	assert.NotContains(t, record.Features, "sleep_hours")
	assert.NotContains(t, record.Features, "steps_total")
}

func TestAssembleRangeIncludesGapDays(t *testing.T) {
	a, _, _ := populatedAssembler()

	start := testDate().AddDate(0, 0, -1)
	end := testDate().AddDate(0, 0, 1)
	records := a.AssembleRange(context.Background(), start, end)

	require.Len(t, records, 3)
	assert.Equal(t, start, records[0].Date)
	assert.Equal(t, testDate(), records[1].Date)
	assert.NotContains(t, records[0].Features, "sleep_hours", "gap day yields a record, not data")
	assert.Contains(t, records[1].Features, "sleep_hours")
}
