package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekWindowMondayStart(t *testing.T) {
	// Wednesday 2024-03-06 -> Monday 2024-03-04 .. Sunday 2024-03-10.
	w := WeekWindow(date(2024, time.March, 6), time.Monday)

	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 10, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestWeekWindowSundayStart(t *testing.T) {
	// Wednesday 2024-03-06 -> Sunday 2024-03-03 .. Saturday 2024-03-09.
	w := WeekWindow(date(2024, time.March, 6), time.Sunday)

	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 9, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestWeekWindowRefOnWeekStart(t *testing.T) {
	// A Monday maps to its own week, not the previous one.
	w := WeekWindow(date(2024, time.March, 4), time.Monday)
	assert.Equal(t, date(2024, time.March, 4), w.Start)
}

func TestWeekWindowMidDayReference(t *testing.T) {
	ref := time.Date(2024, time.March, 6, 15, 42, 7, 0, time.UTC)
	w := WeekWindow(ref, time.Monday)
	assert.Equal(t, date(2024, time.March, 4), w.Start)
}

func TestWeekWindowYearRollover(t *testing.T) {
	// Thursday 2026-01-01 belongs to the week starting Monday 2025-12-29.
	w := WeekWindow(date(2026, time.January, 1), time.Monday)

	assert.Equal(t, date(2025, time.December, 29), w.Start)
	assert.Equal(t, time.Date(2026, time.January, 4, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestWeekWindowLeapDay(t *testing.T) {
	// Thursday 2024-02-29 belongs to Monday 2024-02-26 .. Sunday 2024-03-03.
	w := WeekWindow(date(2024, time.February, 29), time.Monday)

	assert.Equal(t, date(2024, time.February, 26), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 3, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestWindowContainsBounds(t *testing.T) {
	w := WeekWindow(date(2024, time.March, 6), time.Monday)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	// One millisecond outside either bound is excluded.
	assert.False(t, w.Contains(w.Start.Add(-time.Millisecond)))
	assert.False(t, w.Contains(w.End.Add(time.Millisecond)))
	assert.False(t, w.Contains(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekStart(t *testing.T) {
	ws, err := ParseWeekStart("sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, ws)

	ws, err = ParseWeekStart("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, ws)

	_, err = ParseWeekStart("saturday")
	assert.Error(t, err)

	_, err = ParseWeekStart("")
	assert.Error(t, err)
}
