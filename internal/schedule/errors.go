package schedule

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure kinds every service
// operation can return. Callers branch with errors.Is.
var (
	// ErrInvalidInterval rejects an empty or inverted [start, end) pair.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrNotFound means no task exists with the given id.
	ErrNotFound = errors.New("task not found")

	// ErrForbidden means the task exists but belongs to another owner.
	ErrForbidden = errors.New("task belongs to another user")

	// ErrInvalidStatus rejects a status outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrStoreUnavailable wraps store timeouts and connection failures.
	// The service never retries; that is the caller's policy.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// ValidationError reports a malformed, missing, or out-of-enum field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a field validation failure and
// returns it if so.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
