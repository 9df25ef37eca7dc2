package events

import (
	"time"

	"github.com/M4yankkkk/ChronoTask/internal/model"
)

// Routing keys on the events exchange.
const (
	TaskCreated       = "task.created"
	TaskUpdated       = "task.updated"
	TaskStatusChanged = "task.status_changed"
	TaskDeleted       = "task.deleted"
)

// Publisher abstracts the message broker so the scheduling service can be
// exercised without one. *mq.Publisher satisfies it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type TaskEventPayload struct {
	TaskID     string       `json:"task_id"`
	OwnerID    string       `json:"owner_id"`
	Title      string       `json:"title"`
	Status     model.Status `json:"status"`
	StartTime  time.Time    `json:"start_time"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type TaskDeletedPayload struct {
	TaskID     string    `json:"task_id"`
	OwnerID    string    `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
