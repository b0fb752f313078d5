package features

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// StressFeatures derives stress scalars for the local day. Sentinel readings
// (rest/unmeasured, <= 0) are excluded from every mean and peak via the
// shared filter, but still counted as coverage.
func StressFeatures(date time.Time, samples []models.RawSample, cfg Config) models.FeatureSet {
	fs := models.NewFeatureSet()
	if len(samples) == 0 {
		return fs
	}

	measured := measuredStress(samples)
	fs.Features["stress_coverage_pct"] = float64(len(measured)) / float64(len(samples)) * 100
	if len(measured) == 0 {
		return fs
	}

	for key, window := range map[string]timewindow.Window{
		"stress_morning_avg":   timewindow.WindowMorning,
		"stress_afternoon_avg": timewindow.WindowAfternoon,
		"stress_2pm_window":    timewindow.WindowSlump,
	} {
		start, end, err := timewindow.Resolve(date, window, cfg.Location)
		if err != nil {
			continue
		}
		if avg, ok := mean(values(timewindow.InRange(measured, start, end))); ok {
			fs.Features[key] = avg
		}
	}

	if peak, ok := maxOf(values(measured)); ok {
		fs.Features["stress_peak"] = peak
	}

	// High-stress minutes scale the sample count by the spacing the source
	// actually delivered for this day, not an assumed 15 minutes.
	if interval, ok := nominalInterval(samples); ok {
		high := 0
		for _, s := range measured {
			if s.Value > cfg.HighStressThreshold {
				high++
			}
		}
		fs.Features["high_stress_minutes"] = float64(high) * interval.Minutes()
	}

	return fs
}
