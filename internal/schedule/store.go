package schedule

import (
	"context"
	"time"

	"github.com/M4yankkkk/ChronoTask/internal/model"
)

// TaskStore is the contract the scheduling service requires from the
// durable store. Implementations assign id, created_at and updated_at on
// Create and bump updated_at on Update. They report ErrNotFound for
// unknown ids and ErrStoreUnavailable for timeouts or lost connections.
//
// The store only stores and retrieves; ownership enforcement happens in
// the Service and the adapter must never be trusted as the sole
// access-control boundary.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	// ListByOwnerInWindow returns the owner's tasks with start_time in
	// [start, end], both bounds inclusive, ordered by start_time ascending.
	ListByOwnerInWindow(ctx context.Context, ownerID string, start, end time.Time) ([]model.Task, error)
	// Update merges only the fields present in the patch, atomically per
	// record, and returns the merged task.
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}
