// Package timewindow converts calendar dates and named local clock windows
// into absolute UTC ranges, and performs tolerance-bounded nearest-sample
// lookups. All boundaries are built through the time zone database for the
// given date, never by shifting UTC timestamps by a fixed offset, so windows
// stay correct across daylight-saving transitions.
package timewindow

import (
	"fmt"
	"time"
)

// Window names the clock ranges the feature extractors care about.
type Window string

const (
	// WindowMorning is 06:00-12:00 local.
	WindowMorning Window = "morning"
	// WindowAfternoon is 12:00-18:00 local.
	WindowAfternoon Window = "afternoon"
	// WindowSlump is 13:00-16:00 local, the post-lunch window the target
	// outcome is tracked against.
	WindowSlump Window = "slump"
	// WindowFullDay is local midnight to the next local midnight.
	WindowFullDay Window = "full_day"
)

type clockRange struct {
	startHour, startMin int
	endHour, endMin     int
	endNextDay          bool
}

var windows = map[Window]clockRange{
	WindowMorning:   {6, 0, 12, 0, false},
	WindowAfternoon: {12, 0, 18, 0, false},
	WindowSlump:     {13, 0, 16, 0, false},
	WindowFullDay:   {0, 0, 0, 0, true},
}

// Resolve converts a calendar date and a named window into a half-open
// [start, end) UTC range for the configured location.
func Resolve(date time.Time, w Window, loc *time.Location) (time.Time, time.Time, error) {
	r, ok := windows[w]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown window %q", w)
	}

	start := LocalInstant(date, r.startHour, r.startMin, loc)
	endDate := date
	if r.endNextDay {
		endDate = date.AddDate(0, 0, 1)
	}
	end := LocalInstant(endDate, r.endHour, r.endMin, loc)
	return start, end, nil
}

// LocalInstant returns the UTC instant of hh:mm local wall clock on the given
// calendar date. time.Date consults the zone database for that specific date,
// which is what keeps boundaries correct when the UTC offset changes
// mid-window.
func LocalInstant(date time.Time, hour, min int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, min, 0, 0, loc).UTC()
}

// DayBounds returns the UTC range covering the full local calendar day.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start, end, _ := Resolve(date, WindowFullDay, loc)
	return start, end
}

// LocalDate returns the calendar date (midnight UTC representation) that the
// instant falls on in the given location.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
