package features

import "github.com/hoombar/biosignal/internal/models"

// SleepFeatures derives sleep scalars from the session attributed to the
// date's wake morning. A session that starts 23:40 and ends 06:10 belongs to
// the end date; attribution happened when the session was stored.
func SleepFeatures(session *models.SleepSession) models.FeatureSet {
	fs := models.NewFeatureSet()
	if session == nil || session.TotalSleepSeconds == nil || *session.TotalSleepSeconds <= 0 {
		return fs
	}

	total := float64(*session.TotalSleepSeconds)
	fs.Features["sleep_hours"] = total / 3600

	if session.SleepScore != nil {
		fs.Features["sleep_score"] = float64(*session.SleepScore)
	}
	if session.DeepSleepSeconds != nil {
		fs.Features["deep_sleep_pct"] = float64(*session.DeepSleepSeconds) / total * 100
	}
	if session.RemSleepSeconds != nil {
		fs.Features["rem_sleep_pct"] = float64(*session.RemSleepSeconds) / total * 100
	}

	if session.SleepStart != nil && session.SleepEnd != nil {
		timeInBed := session.SleepEnd.Sub(*session.SleepStart).Seconds()
		if timeInBed > 0 {
			fs.Features["sleep_efficiency"] = total / timeInBed * 100
		}
	}

	return fs
}
