// Package features derives per-day scalar features from raw biometric
// samples, sleep sessions, activities and habit records. Every extractor is a
// pure function of a date and its raw inputs; missing inputs yield absent
// keys, never zero.
package features

import (
	"sort"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// mean returns the arithmetic mean, with ok=false on empty input.
func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func minOf(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m, true
}

func maxOf(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

// linearSlope fits y = a + b*x by least squares and returns b. ok is false
// with fewer than two points or zero variance in x, which a caller must treat
// as "slope unknown" rather than zero.
func linearSlope(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// slopePerMinute fits the sample values against elapsed minutes since the
// first sample. Positive means rising over the span.
func slopePerMinute(samples []models.RawSample) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	t0 := samples[0].Timestamp
	for i, s := range samples {
		xs[i] = s.Timestamp.Sub(t0).Minutes()
		ys[i] = s.Value
	}
	return linearSlope(xs, ys)
}

// measuredStress filters out the wearable's sentinel readings (<= 0 means
// rest or unmeasured). This is the single place sentinel filtering happens;
// extractors must not re-implement it.
func measuredStress(samples []models.RawSample) []models.RawSample {
	out := make([]models.RawSample, 0, len(samples))
	for _, s := range samples {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

// nonZero filters samples with value > 0. Heart-rate sources report 0 for
// "no sensor contact", which is not a physiological reading.
func nonZero(samples []models.RawSample) []models.RawSample {
	out := make([]models.RawSample, 0, len(samples))
	for _, s := range samples {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

// values extracts the numeric values in order.
func values(samples []models.RawSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// nominalInterval estimates the source's sample spacing as the median gap
// between consecutive samples. Spacing is source-dependent (typically ~15
// minutes) and can be irregular, so it is derived rather than hard-coded.
func nominalInterval(samples []models.RawSample) (time.Duration, bool) {
	if len(samples) < 2 {
		return 0, false
	}
	gaps := make([]time.Duration, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		if gap := samples[i].Timestamp.Sub(samples[i-1].Timestamp); gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return 0, false
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2], true
}

// rollingWindowMinMean returns the lowest mean over any window of the given
// width anchored at a sample. Windows with a single sample are skipped so one
// spuriously low reading cannot define the minimum.
func rollingWindowMinMean(samples []models.RawSample, width time.Duration) (float64, bool) {
	best := 0.0
	found := false

	for i := range samples {
		end := samples[i].Timestamp.Add(width)
		var sum float64
		var n int
		for j := i; j < len(samples) && samples[j].Timestamp.Before(end); j++ {
			sum += samples[j].Value
			n++
		}
		if n < 2 {
			continue
		}
		avg := sum / float64(n)
		if !found || avg < best {
			best, found = avg, true
		}
	}

	return best, found
}
