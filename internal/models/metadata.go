package models

import "sort"

// FeatureMeta documents a single feature key for export and UI labelling.
type FeatureMeta struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	Derivation  string `json:"derivation"`
}

// coreFeatureMetadata is the static schema for every scalar feature the
// extractors can emit. Habit features are open-ended and merged in at read
// time; they must never be inferred from a single record.
var coreFeatureMetadata = []FeatureMeta{
	// Sleep
	{"sleep_hours", "Total sleep duration", "hours", "Sleep", "total_sleep_seconds / 3600 for the wake date's session"},
	{"deep_sleep_pct", "Deep sleep percentage", "%", "Sleep", "deep_sleep_seconds / total_sleep_seconds; absent when total is 0"},
	{"rem_sleep_pct", "REM sleep percentage", "%", "Sleep", "rem_sleep_seconds / total_sleep_seconds; absent when total is 0"},
	{"sleep_efficiency", "Time asleep / time in bed", "%", "Sleep", "total_sleep_seconds / elapsed(sleep_start, sleep_end)"},
	{"sleep_score", "Device sleep score", "0-100", "Sleep", "passthrough from the sleep session"},

	// HRV
	{"hrv_overnight_avg", "Average overnight HRV", "ms", "HRV", "mean of HRV samples within the sleep window"},
	{"hrv_overnight_min", "Minimum overnight HRV", "ms", "HRV", "min of HRV samples within the sleep window"},
	{"hrv_rmssd_slope", "HRV trend overnight", "ms/min", "HRV", "least-squares slope of HRV vs elapsed minutes; positive = rising"},

	// SpO2
	{"spo2_overnight_avg", "Average overnight SpO2", "%", "SpO2", "mean of SpO2 samples within the sleep window"},
	{"spo2_overnight_min", "Minimum overnight SpO2", "%", "SpO2", "min of SpO2 samples within the sleep window"},
	{"spo2_overnight_max", "Maximum overnight SpO2", "%", "SpO2", "max of SpO2 samples within the sleep window"},
	{"spo2_dips_below_94", "Overnight readings below 94%", "count", "SpO2", "count of SpO2 samples < 94 within the sleep window"},

	// Heart rate
	{"resting_hr", "Resting heart rate", "bpm", "Heart Rate", "lowest mean over any rolling 30-minute window in the local day"},
	{"hr_morning_avg", "Average HR 6am-12pm", "bpm", "Heart Rate", "mean of non-zero samples in the morning window"},
	{"hr_afternoon_avg", "Average HR 12pm-6pm", "bpm", "Heart Rate", "mean of non-zero samples in the afternoon window"},
	{"hr_2pm_window", "Average HR 1pm-4pm", "bpm", "Heart Rate", "mean of non-zero samples in the slump window"},
	{"hr_max_24h", "Maximum HR in 24h", "bpm", "Heart Rate", "max of non-zero samples for the local day"},
	{"hr_recovery_slope", "HR decline after daily peak", "bpm/min", "Heart Rate", "least-squares slope over the 30 minutes following the daily peak"},

	// Body battery
	{"bb_wakeup", "Body Battery at wake time", "0-100", "Body Battery", "nearest sample to sleep_end within ±30min"},
	{"bb_9am", "Body Battery at 9am", "0-100", "Body Battery", "nearest sample to 09:00 local within ±30min"},
	{"bb_12pm", "Body Battery at 12pm", "0-100", "Body Battery", "nearest sample to 12:00 local within ±30min"},
	{"bb_2pm", "Body Battery at 2pm", "0-100", "Body Battery", "nearest sample to 14:00 local within ±30min"},
	{"bb_6pm", "Body Battery at 6pm", "0-100", "Body Battery", "nearest sample to 18:00 local within ±30min"},
	{"bb_morning_drain_rate", "Body Battery change per hour, wake to noon", "points/hour", "Body Battery", "(bb_12pm - bb_wakeup) / hours elapsed; absent if either anchor missing"},
	{"bb_afternoon_drain_rate", "Body Battery change per hour, noon to 6pm", "points/hour", "Body Battery", "(bb_6pm - bb_12pm) / 6; absent if either anchor missing"},
	{"bb_daily_min", "Minimum Body Battery of the day", "0-100", "Body Battery", "min sample value for the local day"},

	// Stress
	{"stress_morning_avg", "Average stress 6am-12pm", "0-100", "Stress", "mean of non-sentinel samples in the morning window"},
	{"stress_afternoon_avg", "Average stress 12pm-6pm", "0-100", "Stress", "mean of non-sentinel samples in the afternoon window"},
	{"stress_2pm_window", "Average stress 1pm-4pm", "0-100", "Stress", "mean of non-sentinel samples in the slump window"},
	{"stress_peak", "Maximum stress level", "0-100", "Stress", "max of non-sentinel samples for the local day"},
	{"high_stress_minutes", "Minutes with stress above 60", "minutes", "Stress", "count of samples > 60 scaled by the derived sample interval"},
	{"stress_coverage_pct", "Share of stress samples with a real reading", "%", "Stress", "non-sentinel samples / all samples for the local day"},

	// Activity
	{"steps_total", "Total daily steps", "steps", "Activity", "sum of step samples for the local day"},
	{"steps_morning", "Steps before 12pm", "steps", "Activity", "sum of step samples before noon local"},
	{"had_training", "Training session occurred", "boolean", "Activity", "1 if any activity starts on the local date"},
	{"training_type", "Type of training", "text", "Activity", "type of the highest-avg-HR activity of the day"},
	{"training_duration_min", "Training duration", "minutes", "Activity", "duration of the main activity"},
	{"training_avg_hr", "Average HR during training", "bpm", "Activity", "avg HR of the main activity"},
	{"training_intensity", "Training intensity class", "low/medium/high", "Activity", "avg_hr / estimated max HR: <0.70 low, 0.70-0.85 medium, >0.85 high"},
	{"hours_since_training", "Hours from last training end to 2pm", "hours", "Activity", "elapsed hours from the most recent activity end (within lookback, incl. previous evening) to 14:00 local"},
}

// FeatureMetadata returns the static core schema merged with the habit names
// discovered across records, sorted by key. Discovery unions names over the
// entire slice, never a single record.
func FeatureMetadata(records []*DailyFeatureRecord) []FeatureMeta {
	out := make([]FeatureMeta, len(coreFeatureMetadata))
	copy(out, coreFeatureMetadata)

	seen := make(map[string]bool, len(out))
	for _, m := range out {
		seen[m.Key] = true
	}

	for _, r := range records {
		for name := range r.Habits {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, FeatureMeta{
				Key:         name,
				Description: "Daily habit: " + name,
				Unit:        "count",
				Category:    "Habits",
				Derivation:  "habit record value; booleans normalized to 0/1",
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
