package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOf(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	w := WeekOf(day(2024, time.January, 10))
	assert.Equal(t, day(2024, time.January, 8), w.Start)
	assert.Equal(t, day(2024, time.January, 14), w.End)

	// Monday and Sunday map onto the same week.
	assert.Equal(t, w, WeekOf(day(2024, time.January, 8)))
	assert.Equal(t, w, WeekOf(day(2024, time.January, 14)))
}

func TestMonthOf(t *testing.T) {
	w := MonthOf(day(2024, time.February, 15))
	assert.Equal(t, day(2024, time.February, 1), w.Start)
	assert.Equal(t, day(2024, time.February, 29), w.End)

	w = MonthOf(day(2023, time.December, 31))
	assert.Equal(t, day(2023, time.December, 1), w.Start)
	assert.Equal(t, day(2023, time.December, 31), w.End)
}

func TestWindowContainsInclusiveBounds(t *testing.T) {
	w := Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}

	assert.True(t, w.Contains(day(2024, time.January, 8)))
	assert.True(t, w.Contains(day(2024, time.January, 14)))
	assert.False(t, w.Contains(day(2024, time.January, 7)))
	assert.False(t, w.Contains(day(2024, time.January, 15)))
	assert.False(t, w.Contains(time.Time{}))
}

func TestMonthWeeksCoverMonth(t *testing.T) {
	weeks := MonthWeeks(day(2024, time.January, 15))
	require.Len(t, weeks, 5)

	// January 2024 starts on a Monday.
	assert.Equal(t, day(2024, time.January, 1), weeks[0].Start)
	assert.Equal(t, day(2024, time.January, 7), weeks[0].End)
	assert.Equal(t, "1/1–1/7", weeks[0].Label)

	// The last week spills into February.
	last := weeks[len(weeks)-1]
	assert.Equal(t, day(2024, time.January, 29), last.Start)
	assert.Equal(t, day(2024, time.February, 4), last.End)
	assert.Equal(t, "1/29–2/4", last.Label)
}

func TestMonthWeeksRewindToMonday(t *testing.T) {
	// March 2024 starts on a Friday; the first window rewinds to Feb 26.
	weeks := MonthWeeks(day(2024, time.March, 1))
	require.NotEmpty(t, weeks)
	assert.Equal(t, day(2024, time.February, 26), weeks[0].Start)
	assert.True(t, weeks[0].Contains(day(2024, time.March, 1)))
}
