package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is the canonical calendar-date format used throughout the API
// and the store.
const DateLayout = "2006-01-02"

// MetricKind identifies a raw time-series metric.
type MetricKind string

const (
	MetricHeartRate   MetricKind = "heart_rate"
	MetricBodyBattery MetricKind = "body_battery"
	MetricStress      MetricKind = "stress"
	MetricHRV         MetricKind = "hrv"
	MetricSpO2        MetricKind = "spo2"
	MetricSteps       MetricKind = "steps"
)

// AllMetricKinds lists every supported metric kind.
var AllMetricKinds = []MetricKind{
	MetricHeartRate,
	MetricBodyBattery,
	MetricStress,
	MetricHRV,
	MetricSpO2,
	MetricSteps,
}

// Valid reports whether k is a known metric kind.
func (k MetricKind) Valid() bool {
	for _, known := range AllMetricKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Stress sentinel values emitted by the wearable. They mean "not measured",
// not a physiological reading, and are preserved at storage time.
const (
	StressSentinelRest       = -1
	StressSentinelUnmeasured = -2
)

// RawSample is a single time-stamped reading for one metric.
// Unique per (Kind, Timestamp); re-syncing the same instant replaces the value.
type RawSample struct {
	Kind      MetricKind `json:"metric_kind"`
	Timestamp time.Time  `json:"timestamp"`
	Value     float64    `json:"value"`
}

// SleepSession is one night of sleep, attributed to the wake date. The
// instant range (SleepStart..SleepEnd) routinely spans two calendar dates.
type SleepSession struct {
	Date              time.Time       `json:"date"`
	SleepStart        *time.Time      `json:"sleep_start,omitempty"`
	SleepEnd          *time.Time      `json:"sleep_end,omitempty"`
	TotalSleepSeconds *int            `json:"total_sleep_seconds,omitempty"`
	DeepSleepSeconds  *int            `json:"deep_sleep_seconds,omitempty"`
	LightSleepSeconds *int            `json:"light_sleep_seconds,omitempty"`
	RemSleepSeconds   *int            `json:"rem_sleep_seconds,omitempty"`
	AwakeSeconds      *int            `json:"awake_seconds,omitempty"`
	SleepScore        *int            `json:"sleep_score,omitempty"`
	AvgOvernightHRV   *float64        `json:"avg_overnight_hrv,omitempty"`
	AvgOvernightSpO2  *float64        `json:"avg_overnight_spo2,omitempty"`
	StageTransitions  []StageInterval `json:"stage_transitions,omitempty"`
}

// StageInterval is one contiguous sleep-stage span within a session.
type StageInterval struct {
	Stage string    `json:"stage"` // deep, light, rem, awake
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Activity is a recorded training session. It carries no date of its own;
// consumers attribute it to a day based on its start/end instants.
type Activity struct {
	ExternalID      string    `json:"external_id"`
	Type            string    `json:"type"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	AvgHR           *int      `json:"avg_hr,omitempty"`
	MaxHR           *int      `json:"max_hr,omitempty"`
	Calories        *int      `json:"calories,omitempty"`
}

// HabitKind describes how a habit value should be interpreted.
type HabitKind string

const (
	HabitBoolean HabitKind = "boolean"
	HabitCounter HabitKind = "counter"
)

// DailyHabitRecord is one habit observation for one date. The habit name set
// is open-ended and discovered at read time across the full queried range.
type DailyHabitRecord struct {
	Date  time.Time `json:"date"`
	Name  string    `json:"habit_name"`
	Value string    `json:"value"`
	Kind  HabitKind `json:"value_kind"`
}

// NumericValue converts the stored string value into the 0/1 (boolean) or
// integer (counter) representation used by the feature layer.
func (r DailyHabitRecord) NumericValue() (float64, bool) {
	switch r.Kind {
	case HabitBoolean:
		switch r.Value {
		case "true", "True", "TRUE", "1":
			return 1, true
		default:
			return 0, true
		}
	default:
		n, err := strconv.Atoi(r.Value)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
}

// DailyFeatureRecord is the assembled, purely derived feature vector for one
// calendar date. A key that is absent from Features/Habits means the feature
// could not be computed for that date; zero is never substituted for missing.
type DailyFeatureRecord struct {
	Date     time.Time          `json:"-"`
	Features map[string]float64 `json:"-"`
	Labels   map[string]string  `json:"-"`
	Habits   map[string]float64 `json:"-"`
}

// NewDailyFeatureRecord returns an empty record for the given date.
func NewDailyFeatureRecord(date time.Time) *DailyFeatureRecord {
	return &DailyFeatureRecord{
		Date:     date,
		Features: make(map[string]float64),
		Labels:   make(map[string]string),
		Habits:   make(map[string]float64),
	}
}

// Value resolves a feature key to its numeric value, consulting scalar
// features first and habits second.
func (r *DailyFeatureRecord) Value(key string) (float64, bool) {
	if v, ok := r.Features[key]; ok {
		return v, true
	}
	v, ok := r.Habits[key]
	return v, ok
}

// Merge copies all entries of other into r. Used by the assembler to fold
// extractor outputs into one flat record.
func (r *DailyFeatureRecord) Merge(other FeatureSet) {
	for k, v := range other.Features {
		r.Features[k] = v
	}
	for k, v := range other.Labels {
		r.Labels[k] = v
	}
	for k, v := range other.Habits {
		r.Habits[k] = v
	}
}

// FeatureSet is the output of a single extractor: named scalars, categorical
// labels, and (for the habit extractor only) habit values.
type FeatureSet struct {
	Features map[string]float64
	Labels   map[string]string
	Habits   map[string]float64
}

// NewFeatureSet returns an empty feature set.
func NewFeatureSet() FeatureSet {
	return FeatureSet{
		Features: make(map[string]float64),
		Labels:   make(map[string]string),
		Habits:   make(map[string]float64),
	}
}

// MarshalJSON flattens the record into a single object: the date, every
// scalar feature, every label, and a nested habits object. Map keys are
// emitted in sorted order so serialization is deterministic.
func (r *DailyFeatureRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Features)+len(r.Labels)+2)
	flat["date"] = r.Date.Format(DateLayout)
	for k, v := range r.Features {
		flat[k] = v
	}
	for k, v := range r.Labels {
		flat[k] = v
	}
	flat["habits"] = r.Habits
	return json.Marshal(flat)
}
