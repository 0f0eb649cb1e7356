package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Window is an inclusive [Start, End] calendar-date range used to filter
// session logs.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the window, inclusive on both
// ends. Zero dates (the unparseable-date sentinel) are never contained.
func (w Window) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	day := DateOnly(d)
	return !day.Before(DateOnly(w.Start)) && !day.After(DateOnly(w.End))
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekOf returns the Monday-to-Sunday window containing ref.
func WeekOf(ref time.Time) Window {
	ref = DateOnly(ref)
	offset := (int(ref.Weekday()) + 6) % 7
	monday := ref.AddDate(0, 0, -offset)
	return Window{Start: monday, End: monday.AddDate(0, 0, 6)}
}

// MonthOf returns the first-to-last-day window of ref's calendar month.
func MonthOf(ref time.Time) Window {
	ref = DateOnly(ref)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{Start: first, End: last}
}

// WeekWindow is a labeled week used by the goal-attainment time series.
type WeekWindow struct {
	Label string `json:"label"`
	Window
}

// MonthWeeks partitions ref's month into Monday-start weeks. A week is
// included whenever it overlaps the month, so the first and last windows
// may extend past the month boundary.
func MonthWeeks(ref time.Time) []WeekWindow {
	month := MonthOf(ref)
	cur := WeekOf(month.Start).Start

	var weeks []WeekWindow
	for !cur.After(month.End) {
		end := cur.AddDate(0, 0, 6)
		weeks = append(weeks, WeekWindow{
			Label:  fmt.Sprintf("%d/%d–%d/%d", int(cur.Month()), cur.Day(), int(end.Month()), end.Day()),
			Window: Window{Start: cur, End: end},
		})
		cur = cur.AddDate(0, 0, 7)
	}
	return weeks
}
