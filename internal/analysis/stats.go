// Package analysis ranks assembled daily features by association with a
// target outcome: Pearson correlations, threshold-rule conditional
// probabilities, and templated insights. Everything here is deterministic,
// auditable arithmetic; no model fitting.
package analysis

import (
	"math"
	"sort"
)

// pearson computes the product-moment correlation and a two-tailed p-value.
// ok is false on zero variance in either series, where the statistic is
// undefined; callers skip the feature rather than emitting NaN.
func pearson(xs, ys []float64) (r, pValue float64, ok bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, 1, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX == 0 || denY == 0 {
		return 0, 1, false
	}

	r = num / math.Sqrt(denX*denY)

	// Two-tailed p from the t statistic, normal approximation.
	if math.Abs(r) >= 1 {
		return r, 0, true
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	pValue = 2 * (1 - normalCDF(math.Abs(t)))
	return r, pValue, true
}

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// median returns the middle value (mean of the two middle values for even
// counts). ok is false on empty input.
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

func meanOf(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

// isBinarySeries reports whether every value is 0 or 1.
func isBinarySeries(vals []float64) bool {
	for _, v := range vals {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}
