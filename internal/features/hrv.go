package features

import "github.com/hoombar/biosignal/internal/models"

// HRVFeatures derives overnight HRV scalars from samples restricted to the
// date's sleep window. The slope is ms per elapsed minute: positive means HRV
// rose over the night.
func HRVFeatures(session *models.SleepSession, samples []models.RawSample) models.FeatureSet {
	fs := models.NewFeatureSet()
	if session == nil || session.SleepStart == nil || session.SleepEnd == nil {
		return fs
	}
	if len(samples) == 0 {
		return fs
	}

	vals := values(samples)
	if avg, ok := mean(vals); ok {
		fs.Features["hrv_overnight_avg"] = avg
	}
	if low, ok := minOf(vals); ok {
		fs.Features["hrv_overnight_min"] = low
	}
	if slope, ok := slopePerMinute(samples); ok {
		fs.Features["hrv_rmssd_slope"] = slope
	}

	return fs
}

// SpO2Features derives overnight blood-oxygen scalars from samples restricted
// to the date's sleep window.
func SpO2Features(session *models.SleepSession, samples []models.RawSample) models.FeatureSet {
	fs := models.NewFeatureSet()
	if session == nil || session.SleepStart == nil || session.SleepEnd == nil {
		return fs
	}
	if len(samples) == 0 {
		return fs
	}

	vals := values(samples)
	if avg, ok := mean(vals); ok {
		fs.Features["spo2_overnight_avg"] = avg
	}
	if low, ok := minOf(vals); ok {
		fs.Features["spo2_overnight_min"] = low
	}
	if high, ok := maxOf(vals); ok {
		fs.Features["spo2_overnight_max"] = high
	}

	dips := 0
	for _, v := range vals {
		if v < 94 {
			dips++
		}
	}
	fs.Features["spo2_dips_below_94"] = float64(dips)

	return fs
}
