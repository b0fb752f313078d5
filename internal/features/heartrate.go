package features

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/timewindow"
)

const (
	restingHRWindow  = 30 * time.Minute
	recoveryHRWindow = 30 * time.Minute
	// A daily peak only qualifies for recovery-slope analysis when it looks
	// like exertion rather than ambient variation.
	recoveryPeakFraction = 0.70
	// recoveryMinFollowOn is the minimum number of samples after the peak.
	recoveryMinFollowOn = 2
)

// HeartRateFeatures derives heart-rate scalars for the local day. Zero
// readings mean "no sensor contact" and are dropped before any aggregation.
func HeartRateFeatures(date time.Time, samples []models.RawSample, cfg Config) models.FeatureSet {
	fs := models.NewFeatureSet()

	filtered := nonZero(samples)
	if len(filtered) == 0 {
		return fs
	}

	if peak, ok := maxOf(values(filtered)); ok {
		fs.Features["hr_max_24h"] = peak
	}

	for key, window := range map[string]timewindow.Window{
		"hr_morning_avg":   timewindow.WindowMorning,
		"hr_afternoon_avg": timewindow.WindowAfternoon,
		"hr_2pm_window":    timewindow.WindowSlump,
	} {
		start, end, err := timewindow.Resolve(date, window, cfg.Location)
		if err != nil {
			continue
		}
		if avg, ok := mean(values(timewindow.InRange(filtered, start, end))); ok {
			fs.Features[key] = avg
		}
	}

	if resting, ok := rollingWindowMinMean(filtered, restingHRWindow); ok {
		fs.Features["resting_hr"] = resting
	}

	if slope, ok := recoverySlope(filtered, cfg.EstimatedMaxHR); ok {
		fs.Features["hr_recovery_slope"] = slope
	}

	return fs
}

// recoverySlope locates the day's peak heart rate and fits the decline over
// the 30 minutes of samples that follow it. Without a qualifying peak (no
// training that day) or enough follow-on samples, the feature is absent.
func recoverySlope(samples []models.RawSample, estimatedMaxHR float64) (float64, bool) {
	peakIdx := -1
	peakVal := 0.0
	for i, s := range samples {
		if s.Value > peakVal {
			peakVal, peakIdx = s.Value, i
		}
	}
	if peakIdx < 0 || peakVal < recoveryPeakFraction*estimatedMaxHR {
		return 0, false
	}

	cutoff := samples[peakIdx].Timestamp.Add(recoveryHRWindow)
	window := []models.RawSample{samples[peakIdx]}
	for _, s := range samples[peakIdx+1:] {
		if s.Timestamp.After(cutoff) {
			break
		}
		window = append(window, s)
	}
	if len(window) < 1+recoveryMinFollowOn {
		return 0, false
	}

	return slopePerMinute(window)
}
