package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M4yankkkk/ChronoTask/internal/model"
)

func TestTransitionPermitsEveryValidPair(t *testing.T) {
	states := []model.Status{
		model.StatusPending,
		model.StatusInProgress,
		model.StatusCompleted,
	}

	for _, from := range states {
		for _, to := range states {
			next, err := Transition(from, to)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, next)
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	for _, bad := range []model.Status{"done", "cancelled", "", "PENDING"} {
		next, err := Transition(model.StatusPending, bad)
		assert.ErrorIs(t, err, ErrInvalidStatus)
		// Current state is preserved on rejection.
		assert.Equal(t, model.StatusPending, next)
	}
}
