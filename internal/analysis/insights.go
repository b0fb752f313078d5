package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hoombar/biosignal/internal/models"
)

const (
	riskUpFloor     = 1.5
	riskDownCeiling = 0.7
	topCorrelations = 3
	corrFloor       = 0.3
)

// GenerateInsights renders ranked plain-English findings out of a
// correlation report and a pattern evaluation for the same target. The
// sentences are deterministic templates over the numbers, so repeated runs on
// the same data produce identical output.
func GenerateInsights(report models.CorrelationReport, patterns []models.PatternResult, cfg Config) []models.InsightResult {
	var insights []models.InsightResult
	label := humanize(report.Target)

	for _, p := range patterns {
		if p.SampleSize < cfg.MinPatternDays {
			continue
		}
		switch {
		case p.RelativeRisk > riskUpFloor && p.Probability > 0.5:
			insights = append(insights, models.InsightResult{
				Text: fmt.Sprintf(
					"You're %.1fx more likely to have a %s day when %s. (%.0f%% vs %.0f%% baseline)",
					p.RelativeRisk, label, strings.ToLower(p.Description),
					p.Probability*100, p.BaselineProbability*100,
				),
				Confidence:       sampleConfidence(p.SampleSize),
				SupportingMetric: p.Key,
				EffectSize:       p.RelativeRisk,
			})
		case p.RelativeRisk < riskDownCeiling && p.Probability < p.BaselineProbability:
			insights = append(insights, models.InsightResult{
				Text: fmt.Sprintf(
					"Days with %s show %.0f%% fewer %s days. (%.0f%% vs %.0f%% baseline)",
					strings.ToLower(p.Description), (1-p.RelativeRisk)*100, label,
					p.Probability*100, p.BaselineProbability*100,
				),
				Confidence:       sampleConfidence(p.SampleSize),
				SupportingMetric: p.Key,
				EffectSize:       1 - p.RelativeRisk,
			})
		}
	}

	top := report.Results
	if len(top) > topCorrelations {
		top = top[:topCorrelations]
	}
	for _, c := range top {
		if abs(c.Coefficient) < corrFloor {
			continue
		}
		quantity := "fewer"
		if c.Coefficient > 0 {
			quantity = "more"
		}
		confidence := models.ConfidenceLow
		if c.SampleSize >= 14 {
			confidence = models.ConfidenceMedium
		}
		insights = append(insights, models.InsightResult{
			Text: fmt.Sprintf(
				"%s is associated with %s %s days (r=%.2f)",
				capitalize(humanize(c.Feature)), quantity, label, c.Coefficient,
			),
			Confidence:       confidence,
			SupportingMetric: c.Feature,
			EffectSize:       abs(c.Coefficient),
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		ci, cj := confidenceRank(insights[i].Confidence), confidenceRank(insights[j].Confidence)
		if ci != cj {
			return ci > cj
		}
		return insights[i].EffectSize > insights[j].EffectSize
	})
	return insights
}

func sampleConfidence(n int) models.Confidence {
	if n >= 10 {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func confidenceRank(c models.Confidence) int {
	switch c {
	case models.ConfidenceHigh:
		return 3
	case models.ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
