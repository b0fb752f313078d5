package features

import "time"

// Config carries the knobs the extractors need. These are product settings,
// not physiology; expose them rather than guessing a "correct" value.
type Config struct {
	// Location is the user's local timezone; all windows resolve against it.
	Location *time.Location
	// NearestTolerance bounds nearest-instant anchor lookups.
	NearestTolerance time.Duration
	// EstimatedMaxHR drives training-intensity classification.
	EstimatedMaxHR float64
	// TrainingLookback bounds how far back hours_since_training searches;
	// beyond it the feature is absent rather than an arbitrarily large number.
	TrainingLookback time.Duration
	// HighStressThreshold is the stress level above which minutes count as
	// high stress.
	HighStressThreshold float64
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig(loc *time.Location) Config {
	if loc == nil {
		loc = time.UTC
	}
	return Config{
		Location:            loc,
		NearestTolerance:    30 * time.Minute,
		EstimatedMaxHR:      190,
		TrainingLookback:    48 * time.Hour,
		HighStressThreshold: 60,
	}
}
