package features

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// BodyBatteryFeatures derives Body Battery anchors and drain rates for the
// local day. Each anchor is a nearest-instant lookup with the configured
// tolerance and is independently absent when no sample qualifies; drain rates
// require both of their anchors and propagate absence instead of
// substituting zero.
func BodyBatteryFeatures(date time.Time, samples []models.RawSample, session *models.SleepSession, cfg Config) models.FeatureSet {
	fs := models.NewFeatureSet()
	if len(samples) == 0 {
		return fs
	}

	anchor := func(key string, target time.Time) (time.Time, bool) {
		s, ok := timewindow.Nearest(samples, target, cfg.NearestTolerance)
		if !ok {
			return time.Time{}, false
		}
		fs.Features[key] = s.Value
		return target, true
	}

	var wakeTime time.Time
	haveWake := false
	if session != nil && session.SleepEnd != nil {
		wakeTime, haveWake = anchor("bb_wakeup", *session.SleepEnd)
	}

	at9 := timewindow.LocalInstant(date, 9, 0, cfg.Location)
	at12 := timewindow.LocalInstant(date, 12, 0, cfg.Location)
	at14 := timewindow.LocalInstant(date, 14, 0, cfg.Location)
	at18 := timewindow.LocalInstant(date, 18, 0, cfg.Location)

	anchor("bb_9am", at9)
	_, have12 := anchor("bb_12pm", at12)
	anchor("bb_2pm", at14)
	_, have18 := anchor("bb_6pm", at18)

	if haveWake && have12 {
		if hours := at12.Sub(wakeTime).Hours(); hours > 0 {
			fs.Features["bb_morning_drain_rate"] = (fs.Features["bb_12pm"] - fs.Features["bb_wakeup"]) / hours
		}
	}
	if have12 && have18 {
		hours := at18.Sub(at12).Hours()
		if hours > 0 {
			fs.Features["bb_afternoon_drain_rate"] = (fs.Features["bb_6pm"] - fs.Features["bb_12pm"]) / hours
		}
	}

	if low, ok := minOf(values(samples)); ok {
		fs.Features["bb_daily_min"] = low
	}

	return fs
}
