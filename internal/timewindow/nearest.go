package timewindow

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// DefaultTolerance bounds nearest-sample lookups when the caller has no
// configured override.
const DefaultTolerance = 30 * time.Minute

// Nearest returns the sample closest in time to target among those within
// tolerance. Ties on distance go to the earliest timestamp. The second return
// is false when no sample qualifies; callers must treat that as missing, not
// as zero.
func Nearest(samples []models.RawSample, target time.Time, tolerance time.Duration) (models.RawSample, bool) {
	var best models.RawSample
	var bestDelta time.Duration
	found := false

	for _, s := range samples {
		delta := s.Timestamp.Sub(target)
		if delta < 0 {
			delta = -delta
		}
		if delta > tolerance {
			continue
		}
		switch {
		case !found, delta < bestDelta:
			best, bestDelta, found = s, delta, true
		case delta == bestDelta && s.Timestamp.Before(best.Timestamp):
			best = s
		}
	}

	return best, found
}

// InRange filters samples to the half-open [start, end) instant range,
// preserving order.
func InRange(samples []models.RawSample, start, end time.Time) []models.RawSample {
	out := make([]models.RawSample, 0, len(samples))
	for _, s := range samples {
		if !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out
}
