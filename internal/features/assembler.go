package features

import (
	"context"
	"time"

	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/repository"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// Assembler turns raw store data into daily feature records. It only ever
// reads from the store; records are purely derived and recomputable.
type Assembler struct {
	samples    repository.SampleRepository
	sleep      repository.SleepRepository
	activities repository.ActivityRepository
	habits     repository.HabitRepository
	cfg        Config
}

// NewAssembler creates an assembler over the given repositories.
func NewAssembler(
	samples repository.SampleRepository,
	sleep repository.SleepRepository,
	activities repository.ActivityRepository,
	habits repository.HabitRepository,
	cfg Config,
) *Assembler {
	return &Assembler{
		samples:    samples,
		sleep:      sleep,
		activities: activities,
		habits:     habits,
		cfg:        cfg,
	}
}

// Assemble derives the feature record for one calendar date. A store failure
// in one feature family nulls that family only; the returned record is always
// structurally complete, and for fixed raw inputs the result is
// deterministic.
func (a *Assembler) Assemble(ctx context.Context, date time.Time) *models.DailyFeatureRecord {
	log := logger.Ctx(ctx).With(logger.String("date", date.Format(models.DateLayout)))
	record := models.NewDailyFeatureRecord(date)

	session, err := a.sleep.GetSleepSession(ctx, date)
	if err != nil {
		log.Warn("sleep session unavailable", logger.Err(err))
		session = nil
	}
	record.Merge(SleepFeatures(session))

	if session != nil && session.SleepStart != nil && session.SleepEnd != nil {
		if hrv, err := a.samples.GetSamples(ctx, models.MetricHRV, *session.SleepStart, *session.SleepEnd); err != nil {
			log.Warn("hrv samples unavailable", logger.Err(err))
		} else {
			record.Merge(HRVFeatures(session, hrv))
		}
		if spo2, err := a.samples.GetSamples(ctx, models.MetricSpO2, *session.SleepStart, *session.SleepEnd); err != nil {
			log.Warn("spo2 samples unavailable", logger.Err(err))
		} else {
			record.Merge(SpO2Features(session, spo2))
		}
	}

	dayStart, dayEnd := timewindow.DayBounds(date, a.cfg.Location)

	if hr, err := a.samples.GetSamples(ctx, models.MetricHeartRate, dayStart, dayEnd); err != nil {
		log.Warn("heart rate samples unavailable", logger.Err(err))
	} else {
		record.Merge(HeartRateFeatures(date, hr, a.cfg))
	}

	if bb, err := a.samples.GetSamples(ctx, models.MetricBodyBattery, dayStart, dayEnd); err != nil {
		log.Warn("body battery samples unavailable", logger.Err(err))
	} else {
		record.Merge(BodyBatteryFeatures(date, bb, session, a.cfg))
	}

	if stress, err := a.samples.GetSamples(ctx, models.MetricStress, dayStart, dayEnd); err != nil {
		log.Warn("stress samples unavailable", logger.Err(err))
	} else {
		record.Merge(StressFeatures(date, stress, a.cfg))
	}

	record.Merge(a.activityFeatures(ctx, log, date, dayStart, dayEnd))

	if habitRecords, err := a.habits.GetHabitRecords(ctx, date, date); err != nil {
		log.Warn("habit records unavailable", logger.Err(err))
	} else {
		record.Merge(HabitFeatures(date, habitRecords))
	}

	return record
}

func (a *Assembler) activityFeatures(ctx context.Context, log logger.Logger, date time.Time, dayStart, dayEnd time.Time) models.FeatureSet {
	var steps []models.RawSample
	if s, err := a.samples.GetSamples(ctx, models.MetricSteps, dayStart, dayEnd); err != nil {
		log.Warn("step samples unavailable", logger.Err(err))
	} else {
		steps = s
	}

	dayActivities, err := a.activities.GetActivities(ctx, dayStart, dayEnd)
	if err != nil {
		log.Warn("activities unavailable", logger.Err(err))
		dayActivities = nil
	}

	// hours_since_training looks backward across midnight, bounded by the
	// configured lookback ending at the 14:00 local anchor.
	anchor := timewindow.LocalInstant(date, 14, 0, a.cfg.Location)
	lookbackActivities, err := a.activities.GetActivities(ctx, anchor.Add(-a.cfg.TrainingLookback), anchor)
	if err != nil {
		log.Warn("lookback activities unavailable", logger.Err(err))
		lookbackActivities = nil
	}

	return ActivityFeatures(date, steps, dayActivities, lookbackActivities, a.cfg)
}

// AssembleRange derives one record per calendar date in [start, end]
// inclusive, oldest first. Dates with no data at all still yield a record so
// callers can see gaps instead of a silently compressed series.
func (a *Assembler) AssembleRange(ctx context.Context, start, end time.Time) []*models.DailyFeatureRecord {
	var records []*models.DailyFeatureRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		records = append(records, a.Assemble(ctx, d))
	}
	return records
}
