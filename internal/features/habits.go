package features

import (
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

// HabitFeatures emits one habit value per record present on the date:
// booleans normalized to 0/1, counters passed through as integers. A habit
// absent on the date is simply absent from the set, never 0. The records
// slice typically spans a wider range; only this date's rows are emitted
// here, while schema discovery unions names across the whole range at the
// metadata/correlation layer.
func HabitFeatures(date time.Time, records []models.DailyHabitRecord) models.FeatureSet {
	fs := models.NewFeatureSet()

	for _, rec := range records {
		if !sameDate(rec.Date, date) {
			continue
		}
		if v, ok := rec.NumericValue(); ok {
			fs.Habits[rec.Name] = v
		}
	}

	return fs
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
