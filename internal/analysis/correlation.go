package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// Config holds the statistical thresholds. They are product settings carried
// in configuration, not laws of nature; defaults match the documented
// strength bands (negligible <0.1, weak <0.3, moderate <0.5, strong >=0.5).
type Config struct {
	// MinDays is the minimum paired sample size per feature.
	MinDays int
	// PreliminaryDays flags the whole result set preliminary when fewer
	// usable days exist.
	PreliminaryDays int
	// MinPatternDays is the minimum size of both pattern partitions.
	MinPatternDays int
	// Strength band floors on |r|.
	WeakFloor, ModerateFloor, StrongFloor float64
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinDays:         7,
		PreliminaryDays: 30,
		MinPatternDays:  5,
		WeakFloor:       0.1,
		ModerateFloor:   0.3,
		StrongFloor:     0.5,
	}
}

func (c Config) strength(r float64) models.Strength {
	switch abs := math.Abs(r); {
	case abs >= c.StrongFloor:
		return models.StrengthStrong
	case abs >= c.ModerateFloor:
		return models.StrengthModerate
	case abs >= c.WeakFloor:
		return models.StrengthWeak
	default:
		return models.StrengthNegligible
	}
}

// Correlate ranks every numeric feature by Pearson association with the
// target across the records. Only days where both the feature and the target
// are present pair up; zero-variance features are skipped rather than
// reported with an undefined statistic.
func Correlate(records []*models.DailyFeatureRecord, target string, cfg Config) models.CorrelationReport {
	report := models.CorrelationReport{
		Target:     target,
		ComputedAt: time.Now().UTC(),
	}

	// Days with a target value drive everything downstream.
	var usable []*models.DailyFeatureRecord
	var targetVals []float64
	for _, r := range records {
		if v, ok := r.Value(target); ok {
			usable = append(usable, r)
			targetVals = append(targetVals, v)
		}
	}
	report.UsableDays = len(usable)
	report.Preliminary = len(usable) < cfg.PreliminaryDays
	if len(usable) < cfg.MinDays {
		return report
	}

	// Partition for group means: target=1 vs target=0 for binary targets,
	// above vs at-or-below the median for continuous ones.
	inTargetGroup := targetPartition(targetVals)

	for _, feature := range candidateFeatures(usable, target) {
		var xs, ys []float64
		var groupVals, baseVals []float64
		for i, r := range usable {
			v, ok := r.Value(feature)
			if !ok {
				continue
			}
			xs = append(xs, targetVals[i])
			ys = append(ys, v)
			if inTargetGroup(targetVals[i]) {
				groupVals = append(groupVals, v)
			} else {
				baseVals = append(baseVals, v)
			}
		}
		if len(xs) < cfg.MinDays {
			continue
		}

		r, p, ok := pearson(xs, ys)
		if !ok {
			continue
		}

		result := models.CorrelationResult{
			Feature:     feature,
			Coefficient: r,
			PValue:      p,
			SampleSize:  len(xs),
			Strength:    cfg.strength(r),
			Direction:   direction(r),
		}
		if avg, ok := meanOf(groupVals); ok {
			result.TargetAvg = models.Float(avg)
		}
		if avg, ok := meanOf(baseVals); ok {
			result.BaselineAvg = models.Float(avg)
		}
		if result.TargetAvg.Valid && result.BaselineAvg.Valid && result.BaselineAvg.Value != 0 {
			diff := (result.TargetAvg.Value - result.BaselineAvg.Value) / result.BaselineAvg.Value * 100
			result.DifferencePct = models.Float(diff)
		}

		report.Results = append(report.Results, result)
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		ri := math.Abs(report.Results[i].Coefficient)
		rj := math.Abs(report.Results[j].Coefficient)
		if ri != rj {
			return ri > rj
		}
		return report.Results[i].SampleSize > report.Results[j].SampleSize
	})

	return report
}

// candidateFeatures unions numeric feature and habit names across all
// records, excluding the target itself. The union is over every record: the
// schema must never come from the first row alone.
func candidateFeatures(records []*models.DailyFeatureRecord, target string) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Features {
			seen[k] = true
		}
		for k := range r.Habits {
			seen[k] = true
		}
	}
	delete(seen, target)

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func targetPartition(targetVals []float64) func(float64) bool {
	if isBinarySeries(targetVals) {
		return func(v float64) bool { return v == 1 }
	}
	mid, _ := median(targetVals)
	return func(v float64) bool { return v > mid }
}

func direction(r float64) models.Direction {
	switch {
	case r > 0:
		return models.DirectionPositive
	case r < 0:
		return models.DirectionNegative
	default:
		return models.DirectionNeutral
	}
}
