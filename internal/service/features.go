package service

import (
	"context"
	"sync"
	"time"

	"github.com/hoombar/biosignal/internal/features"
	"github.com/hoombar/biosignal/internal/models"
)

type featureService struct {
	assembler *features.Assembler

	mu    sync.RWMutex
	cache map[string]*models.DailyFeatureRecord
}

// NewFeatureService creates a feature service over the given assembler.
// Records are derived on demand and cached per date; an ingest for a date
// invalidates its entry so the next read recomputes.
func NewFeatureService(assembler *features.Assembler) FeatureService {
	return &featureService{
		assembler: assembler,
		cache:     make(map[string]*models.DailyFeatureRecord),
	}
}

func (s *featureService) GetDaily(ctx context.Context, date time.Time) (*models.DailyFeatureRecord, error) {
	key := date.Format(models.DateLayout)

	s.mu.RLock()
	if record, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return record, nil
	}
	s.mu.RUnlock()

	record := s.assembler.Assemble(ctx, date)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = record
	s.mu.Unlock()
	return record, nil
}

func (s *featureService) GetRange(ctx context.Context, start, end time.Time) ([]*models.DailyFeatureRecord, error) {
	var records []*models.DailyFeatureRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		record, err := s.GetDaily(ctx, d)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *featureService) Invalidate(dates ...time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range dates {
		delete(s.cache, d.Format(models.DateLayout))
	}
}

func (s *featureService) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*models.DailyFeatureRecord)
}
