package features

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// Training intensity bands as fractions of estimated max HR.
const (
	intensityMediumFloor = 0.70
	intensityHighFloor   = 0.85
)

// ActivityFeatures derives steps and training scalars for the local day.
//
// dayActivities are activities starting on the local date; lookbackActivities
// cover the configured lookback window ending at 14:00 local of the date, so
// hours_since_training can deliberately reach back across midnight to a
// previous evening's session.
func ActivityFeatures(date time.Time, steps []models.RawSample, dayActivities, lookbackActivities []models.Activity, cfg Config) models.FeatureSet {
	fs := models.NewFeatureSet()

	if len(steps) > 0 {
		var total, morning float64
		noon := timewindow.LocalInstant(date, 12, 0, cfg.Location)
		for _, s := range steps {
			total += s.Value
			if s.Timestamp.Before(noon) {
				morning += s.Value
			}
		}
		fs.Features["steps_total"] = total
		fs.Features["steps_morning"] = morning
	}

	if len(dayActivities) > 0 {
		fs.Features["had_training"] = 1
		main := mainActivity(dayActivities)

		fs.Labels["training_type"] = main.Type
		if main.DurationSeconds != nil {
			fs.Features["training_duration_min"] = float64(*main.DurationSeconds) / 60
		}
		if main.AvgHR != nil && cfg.EstimatedMaxHR > 0 {
			fs.Features["training_avg_hr"] = float64(*main.AvgHR)
			fs.Labels["training_intensity"] = classifyIntensity(float64(*main.AvgHR) / cfg.EstimatedMaxHR)
		}
	} else {
		fs.Features["had_training"] = 0
	}

	if hours, ok := hoursSinceTraining(date, lookbackActivities, cfg); ok {
		fs.Features["hours_since_training"] = hours
	}

	return fs
}

// mainActivity picks the day's main session: the one with the highest average
// heart rate, falling back to the first.
func mainActivity(activities []models.Activity) models.Activity {
	main := activities[0]
	best := -1
	for _, a := range activities {
		if a.AvgHR != nil && *a.AvgHR > best {
			best, main = *a.AvgHR, a
		}
	}
	return main
}

func classifyIntensity(fraction float64) string {
	switch {
	case fraction > intensityHighFloor:
		return "high"
	case fraction >= intensityMediumFloor:
		return "medium"
	default:
		return "low"
	}
}

// hoursSinceTraining returns the signed elapsed hours from the most recent
// activity end before 14:00 local to 14:00 local. An activity ending 20:00
// the previous evening yields roughly +18. Beyond the configured lookback,
// or when the day's only session starts after 14:00, the feature is absent
// rather than a sentinel number.
func hoursSinceTraining(date time.Time, activities []models.Activity, cfg Config) (float64, bool) {
	anchor := timewindow.LocalInstant(date, 14, 0, cfg.Location)
	horizon := anchor.Add(-cfg.TrainingLookback)

	var latestEnd time.Time
	found := false
	for _, a := range activities {
		if a.EndTime.After(anchor) || a.EndTime.Before(horizon) {
			continue
		}
		if !found || a.EndTime.After(latestEnd) {
			latestEnd, found = a.EndTime, true
		}
	}
	if !found {
		return 0, false
	}
	return anchor.Sub(latestEnd).Hours(), true
}
