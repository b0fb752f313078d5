package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hoombar/biosignal/internal/analysis"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// LookbackDays bounds how much history feeds an analysis run.
const LookbackDays = 365

type analysisService struct {
	features FeatureService
	location *time.Location
	cfg      analysis.Config
	patterns []analysis.Pattern

	// now is swappable for tests.
	now func() time.Time
}

// NewAnalysisService creates an analysis service over derived feature
// records. Every run re-reads up to a year of history ending today in the
// configured timezone.
func NewAnalysisService(features FeatureService, location *time.Location, cfg analysis.Config) AnalysisService {
	if location == nil {
		location = time.UTC
	}
	return &analysisService{
		features: features,
		location: location,
		cfg:      cfg,
		patterns: analysis.DefaultPatterns(),
		now:      time.Now,
	}
}

func (s *analysisService) Correlations(ctx context.Context, target string, minDays int) (*models.CorrelationReport, error) {
	records, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.cfg
	if minDays > 0 {
		cfg.MinDays = minDays
	}
	report := analysis.Correlate(records, target, cfg)
	return &report, nil
}

func (s *analysisService) Patterns(ctx context.Context, target string) ([]models.PatternResult, error) {
	records, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.DetectPatterns(records, target, s.patterns, s.cfg), nil
}

func (s *analysisService) Insights(ctx context.Context, target string) ([]models.InsightResult, error) {
	records, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	report := analysis.Correlate(records, target, s.cfg)
	patterns := analysis.DetectPatterns(records, target, s.patterns, s.cfg)
	return analysis.GenerateInsights(report, patterns, s.cfg), nil
}

func (s *analysisService) history(ctx context.Context) ([]*models.DailyFeatureRecord, error) {
	end := timewindow.LocalDate(s.now(), s.location)
	start := end.AddDate(0, 0, -LookbackDays)
	records, err := s.features.GetRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to derive feature history: %w", err)
	}
	return records, nil
}
