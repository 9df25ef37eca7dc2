package schedule

import "time"

// ValidateInterval checks a [start, end) instant pair. The interval must
// be non-empty: equal instants are rejected. Zero values mean the caller
// failed to parse an instant at all and are rejected too.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidInterval
	}
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	return nil
}
