package models

import "time"

// Strength classifies the magnitude of a correlation coefficient. The cut
// points are configuration, not contract; see analysis.Config.
type Strength string

const (
	StrengthNegligible Strength = "negligible"
	StrengthWeak       Strength = "weak"
	StrengthModerate   Strength = "moderate"
	StrengthStrong     Strength = "strong"
)

// Confidence represents how much weight an insight deserves.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Direction represents the sign of an association.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// CorrelationResult holds one feature's association with the target.
type CorrelationResult struct {
	Feature       string        `json:"feature"`
	Coefficient   float64       `json:"coefficient"` // Pearson r (-1 to 1)
	PValue        float64       `json:"p_value"`     // two-tailed
	SampleSize    int           `json:"n"`           // paired days used
	Strength      Strength      `json:"strength"`
	Direction     Direction     `json:"direction"`
	TargetAvg     NullableFloat `json:"target_day_avg"`  // mean on target=1 days
	BaselineAvg   NullableFloat `json:"baseline_day_avg"` // mean on target=0 days
	DifferencePct NullableFloat `json:"difference_pct"`   // signed % difference between groups
}

// CorrelationReport is the full ranked result set for one target.
type CorrelationReport struct {
	Target      string              `json:"target"`
	Results     []CorrelationResult `json:"results"`
	UsableDays  int                 `json:"usable_days"`
	Preliminary bool                `json:"preliminary"`
	ComputedAt  time.Time           `json:"computed_at"`
}

// PatternResult holds the conditional-probability evaluation of one rule.
type PatternResult struct {
	Key                 string  `json:"key"`
	Description         string  `json:"description"`
	Probability         float64 `json:"probability"`          // P(target | condition)
	BaselineProbability float64 `json:"baseline_probability"` // P(target)
	RelativeRisk        float64 `json:"relative_risk"`
	SampleSize          int     `json:"sample_size"` // matching days
}

// InsightResult is one rendered, ranked finding.
type InsightResult struct {
	Text             string     `json:"text"`
	Confidence       Confidence `json:"confidence"`
	SupportingMetric string     `json:"supporting_metric"`
	EffectSize       float64    `json:"effect_size"`
}
