package timewindow

import (
	"testing"
	"time"

	"github.com/hoombar/biosignal/internal/models"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("loading %s: %v", name, err)
	}
	return loc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveAfternoonWindow(t *testing.T) {
	loc := mustLoad(t, "Europe/London")

	// Mid-winter: London is on UTC.
	start, end, err := Resolve(date(2024, time.January, 15), WindowAfternoon, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := start.Format(time.RFC3339); got != "2024-01-15T12:00:00Z" {
		t.Errorf("start = %s", got)
	}
	if got := end.Format(time.RFC3339); got != "2024-01-15T18:00:00Z" {
		t.Errorf("end = %s", got)
	}
}

func TestResolveAcrossDSTTransition(t *testing.T) {
	loc := mustLoad(t, "Europe/London")

	// 2024-03-31: clocks go forward at 01:00 UTC, so the local day is 23
	// hours long and afternoon boundaries are one UTC hour earlier than the
	// day before.
	transition := date(2024, time.March, 31)

	start, end, err := Resolve(transition, WindowAfternoon, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := start.Format(time.RFC3339); got != "2024-03-31T11:00:00Z" {
		t.Errorf("start = %s, want 11:00 UTC (12:00 BST)", got)
	}
	if got := end.Format(time.RFC3339); got != "2024-03-31T17:00:00Z" {
		t.Errorf("end = %s, want 17:00 UTC (18:00 BST)", got)
	}

	// A sample at 12:30 local wall clock must fall inside the afternoon
	// window regardless of the offset change that morning.
	wallClock := time.Date(2024, time.March, 31, 12, 30, 0, 0, loc).UTC()
	if wallClock.Before(start) || !wallClock.Before(end) {
		t.Errorf("12:30 local (%s) outside afternoon window [%s, %s)", wallClock, start, end)
	}

	dayStart, dayEnd := DayBounds(transition, loc)
	if got := dayEnd.Sub(dayStart); got != 23*time.Hour {
		t.Errorf("DST-transition day length = %v, want 23h", got)
	}
}

func TestResolveUnknownWindow(t *testing.T) {
	loc := mustLoad(t, "Europe/London")
	if _, _, err := Resolve(date(2024, time.January, 1), Window("brunch"), loc); err == nil {
		t.Error("expected error for unknown window")
	}
}

func TestLocalDateAttribution(t *testing.T) {
	loc := mustLoad(t, "Europe/London")

	// 23:30 UTC on July 1st is 00:30 BST on July 2nd.
	instant := time.Date(2024, time.July, 1, 23, 30, 0, 0, time.UTC)
	if got := LocalDate(instant, loc); !got.Equal(date(2024, time.July, 2)) {
		t.Errorf("LocalDate = %s, want 2024-07-02", got.Format(models.DateLayout))
	}
}

func TestNearestPicksClosest(t *testing.T) {
	target := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	samples := []models.RawSample{
		{Kind: models.MetricBodyBattery, Timestamp: target.Add(-25 * time.Minute), Value: 70},
		{Kind: models.MetricBodyBattery, Timestamp: target.Add(10 * time.Minute), Value: 65},
		{Kind: models.MetricBodyBattery, Timestamp: target.Add(28 * time.Minute), Value: 60},
	}

	got, ok := Nearest(samples, target, DefaultTolerance)
	if !ok {
		t.Fatal("expected a sample within tolerance")
	}
	if got.Value != 65 {
		t.Errorf("got value %v, want 65", got.Value)
	}
}

func TestNearestTieBreaksEarliest(t *testing.T) {
	target := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	samples := []models.RawSample{
		{Timestamp: target.Add(15 * time.Minute), Value: 2},
		{Timestamp: target.Add(-15 * time.Minute), Value: 1},
	}

	got, ok := Nearest(samples, target, DefaultTolerance)
	if !ok {
		t.Fatal("expected a sample within tolerance")
	}
	if got.Value != 1 {
		t.Errorf("tie should go to the earlier sample, got value %v", got.Value)
	}
}

func TestNearestOutsideToleranceIsMissing(t *testing.T) {
	target := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	samples := []models.RawSample{
		{Timestamp: target.Add(31 * time.Minute), Value: 80},
	}

	if _, ok := Nearest(samples, target, DefaultTolerance); ok {
		t.Error("sample outside tolerance must be reported missing")
	}
	if _, ok := Nearest(nil, target, DefaultTolerance); ok {
		t.Error("empty input must be reported missing")
	}
}

func TestInRange(t *testing.T) {
	base := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	samples := []models.RawSample{
		{Timestamp: base.Add(-time.Minute), Value: 1},
		{Timestamp: base, Value: 2},
		{Timestamp: base.Add(time.Hour), Value: 3},
		{Timestamp: base.Add(2 * time.Hour), Value: 4},
	}

	got := InRange(samples, base, base.Add(2*time.Hour))
	if len(got) != 2 || got[0].Value != 2 || got[1].Value != 3 {
		t.Errorf("InRange returned %v, want values [2 3]", got)
	}
}
