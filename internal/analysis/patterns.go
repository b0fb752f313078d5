package analysis

import (
	"math"
	"sort"

	"github.com/hoombar/biosignal/internal/models"
)

// Pattern is one threshold rule evaluated day by day. Match reports whether
// the day satisfies the condition, and whether the inputs needed to decide
// were present at all. Days with missing inputs fall out of both partitions
// instead of silently counting as non-matches.
type Pattern struct {
	Key         string
	Description string
	Match       func(day, prev *models.DailyFeatureRecord) (matched, ok bool)
}

// DefaultPatterns returns the built-in rule set. Each rule reads same-day
// features except where the description says otherwise; prev is the
// chronologically previous record when one exists.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Key:         "short_sleep",
			Description: "slept under 7 hours",
			Match:       thresholdBelow("sleep_hours", 7),
		},
		{
			Key:         "beer_previous_evening",
			Description: "more than 2 beers the previous evening",
			Match: func(_, prev *models.DailyFeatureRecord) (bool, bool) {
				if prev == nil {
					return false, false
				}
				v, ok := prev.Value("beer_count")
				return v > 2, ok
			},
		},
		{
			Key:         "high_coffee",
			Description: "more than 3 coffees",
			Match:       thresholdAbove("coffee_count", 3),
		},
		{
			Key:         "carb_heavy_lunch",
			Description: "carb-heavy lunch",
			Match:       thresholdAbove("carb_heavy_lunch", 0),
		},
		{
			Key:         "low_morning_battery",
			Description: "body battery below 50 at 9am",
			Match:       thresholdBelow("bb_9am", 50),
		},
		{
			Key:         "training_day",
			Description: "trained that day",
			Match:       thresholdAbove("had_training", 0),
		},
		{
			Key:         "evening_training_previous_day",
			Description: "evening training the previous day",
			Match: func(day, prev *models.DailyFeatureRecord) (bool, bool) {
				if prev == nil {
					return false, false
				}
				trained, ok := prev.Value("had_training")
				if !ok {
					return false, false
				}
				if trained != 1 {
					return false, true
				}
				since, ok := day.Value("hours_since_training")
				if !ok {
					return false, false
				}
				// A session that ended 12 to 24 hours before the 2pm
				// anchor lands in the previous evening.
				return since >= 12 && since <= 24, true
			},
		},
	}
}

func thresholdBelow(key string, limit float64) func(day, prev *models.DailyFeatureRecord) (bool, bool) {
	return func(day, _ *models.DailyFeatureRecord) (bool, bool) {
		v, ok := day.Value(key)
		return v < limit, ok
	}
}

func thresholdAbove(key string, limit float64) func(day, prev *models.DailyFeatureRecord) (bool, bool) {
	return func(day, _ *models.DailyFeatureRecord) (bool, bool) {
		v, ok := day.Value(key)
		return v > limit, ok
	}
}

// DetectPatterns evaluates each rule against the records, which must be in
// chronological order. A rule only produces a result when both partitions
// (condition days and non-condition days) reach MinPatternDays, so relative
// risk is never computed against a near-empty baseline.
func DetectPatterns(records []*models.DailyFeatureRecord, target string, patterns []Pattern, cfg Config) []models.PatternResult {
	var results []models.PatternResult

	for _, p := range patterns {
		var matchDays, restDays, matchTarget, restTarget int
		for i, day := range records {
			tv, ok := day.Value(target)
			if !ok {
				continue
			}
			var prev *models.DailyFeatureRecord
			if i > 0 {
				prev = records[i-1]
			}
			matched, ok := p.Match(day, prev)
			if !ok {
				continue
			}
			if matched {
				matchDays++
				if tv == 1 {
					matchTarget++
				}
			} else {
				restDays++
				if tv == 1 {
					restTarget++
				}
			}
		}

		if matchDays < cfg.MinPatternDays || restDays < cfg.MinPatternDays {
			continue
		}

		total := matchDays + restDays
		baseline := float64(matchTarget+restTarget) / float64(total)
		if baseline == 0 {
			continue
		}
		prob := float64(matchTarget) / float64(matchDays)

		results = append(results, models.PatternResult{
			Key:                 p.Key,
			Description:         p.Description,
			Probability:         prob,
			BaselineProbability: baseline,
			RelativeRisk:        prob / baseline,
			SampleSize:          matchDays,
		})
	}

	// Rank by distance of relative risk from 1, damped for small samples.
	sort.SliceStable(results, func(i, j int) bool {
		return patternScore(results[i]) > patternScore(results[j])
	})
	return results
}

func patternScore(r models.PatternResult) float64 {
	weight := float64(r.SampleSize) / float64(r.SampleSize+5)
	return math.Abs(r.RelativeRisk-1) * weight
}
