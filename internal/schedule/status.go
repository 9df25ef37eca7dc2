package schedule

import (
	"github.com/M4yankkkk/ChronoTask/internal/model"
)

// Transition applies a requested status change. Every transition between
// enumerated states is permitted, including completed back to pending
// (the calendar's one-click toggle relies on that). The only rejection is
// a requested value outside the enumeration.
func Transition(current, requested model.Status) (model.Status, error) {
	if !requested.Valid() {
		return current, ErrInvalidStatus
	}
	return requested, nil
}
