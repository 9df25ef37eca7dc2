package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Window is a contiguous 7-day instant range used to group tasks for
// calendar display. Start is midnight of the first day; End is the last
// represented instant (23:59:59.999) of the seventh day. Both bounds are
// inclusive on the query path.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeekWindow maps ref to its enclosing 7-day window beginning on
// weekStart. The computation happens in ref's location; months, years
// and leap days roll over per the calendar.
func WeekWindow(ref time.Time, weekStart time.Weekday) Window {
	daysBack := (int(ref.Weekday()) - int(weekStart) + 7) % 7

	y, m, d := ref.AddDate(0, 0, -daysBack).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)

	return Window{Start: start, End: end}
}

// ParseWeekStart maps a configured day name to a weekday. Only Sunday
// and Monday conventions are accepted.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported week start %q", s)
	}
}
