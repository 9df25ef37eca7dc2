package schedule

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/cache"
	"github.com/M4yankkkk/ChronoTask/internal/events"
	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/pkg/metrics"
)

// Service is the single entry point for task scheduling. It validates
// input, computes week windows, enforces ownership and applies status
// transitions; all side effects go through the TaskStore. The service
// holds no mutable state across calls, so one instance may serve many
// concurrent requests.
//
// cache and publisher are optional collaborators; either may be nil.
type Service struct {
	store     TaskStore
	weekCache *cache.WeekCache
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(store TaskStore, weekCache *cache.WeekCache, publisher events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		weekCache: weekCache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateTaskInput carries the caller-settable fields of a new task.
// Priority, category and color fall back to their defaults when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Priority    model.Priority
	Category    model.Category
	Notes       string
	Color       string
}

// CreateTask validates the input and persists a new pending task for
// ownerID.
func (s *Service) CreateTask(ctx context.Context, ownerID string, input CreateTaskInput) (*model.Task, error) {
	if ownerID == "" {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, &ValidationError{Field: "owner_id", Message: "required"}
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := validateTitle(input.Title); err != nil {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, err
	}
	if err := validateLength("description", input.Description, model.MaxDescriptionLen); err != nil {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, err
	}
	if err := validateLength("notes", input.Notes, model.MaxNotesLen); err != nil {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = model.PriorityMid
	}
	if !input.Priority.Valid() {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, &ValidationError{Field: "priority", Message: "must be one of low, mid, high"}
	}

	if input.Category == "" {
		input.Category = model.CategoryOther
	}
	if !input.Category.Valid() {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, &ValidationError{Field: "category", Message: "must be one of work, study, personal, health, other"}
	}

	if err := ValidateInterval(input.StartTime, input.EndTime); err != nil {
		metrics.IncrementTaskOperation("create", "rejected")
		return nil, err
	}

	if input.Color == "" {
		input.Color = model.DefaultColor
	}

	task := &model.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Priority:    input.Priority,
		Category:    input.Category,
		Status:      model.StatusPending,
		Notes:       strings.TrimSpace(input.Notes),
		Color:       input.Color,
	}

	created, err := s.store.Create(ctx, task)
	if err != nil {
		s.logger.Error("Failed to create task",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		metrics.IncrementTaskOperation("create", "error")
		return nil, err
	}

	s.logger.Info("Task created",
		zap.String("task_id", created.ID),
		zap.String("owner_id", ownerID),
		zap.Time("start_time", created.StartTime),
	)
	metrics.IncrementTaskOperation("create", "success")

	s.weekCache.Invalidate(ctx, ownerID)
	s.publish(events.TaskCreated, events.TaskEventPayload{
		TaskID:     created.ID,
		OwnerID:    created.OwnerID,
		Title:      created.Title,
		Status:     created.Status,
		StartTime:  created.StartTime,
		OccurredAt: time.Now(),
	})

	return created, nil
}

// ListAll returns every task of the owner, ordered by start time.
func (s *Service) ListAll(ctx context.Context, ownerID string) ([]model.Task, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// GetWeek returns the owner's tasks whose start time falls in the 7-day
// window enclosing ref, bounds inclusive, ordered by start time.
func (s *Service) GetWeek(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) ([]model.Task, error) {
	window := WeekWindow(ref, weekStart)

	if tasks, ok := s.weekCache.Get(ctx, ownerID, window.Start); ok {
		return tasks, nil
	}

	tasks, err := s.store.ListByOwnerInWindow(ctx, ownerID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	s.weekCache.Set(ctx, ownerID, window.Start, tasks)
	return tasks, nil
}

// UpdateTask validates each present patch field, re-checks the merged
// interval when either time changes, and applies the merge.
func (s *Service) UpdateTask(ctx context.Context, ownerID, id string, patch model.TaskPatch) (*model.Task, error) {
	current, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		metrics.IncrementTaskOperation("update", "rejected")
		return nil, err
	}

	if patch.Empty() {
		metrics.IncrementTaskOperation("update", "success")
		return current, nil
	}

	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if err := validatePatch(patch); err != nil {
		metrics.IncrementTaskOperation("update", "rejected")
		return nil, err
	}

	if patch.StartTime != nil || patch.EndTime != nil {
		start, end := current.StartTime, current.EndTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}
		if patch.EndTime != nil {
			end = *patch.EndTime
		}
		if err := ValidateInterval(start, end); err != nil {
			metrics.IncrementTaskOperation("update", "rejected")
			return nil, err
		}
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("Failed to update task",
			zap.String("task_id", id),
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		metrics.IncrementTaskOperation("update", "error")
		return nil, err
	}

	s.logger.Info("Task updated",
		zap.String("task_id", id),
		zap.String("owner_id", ownerID),
	)
	metrics.IncrementTaskOperation("update", "success")

	s.weekCache.Invalidate(ctx, ownerID)
	s.publish(events.TaskUpdated, events.TaskEventPayload{
		TaskID:     updated.ID,
		OwnerID:    updated.OwnerID,
		Title:      updated.Title,
		Status:     updated.Status,
		StartTime:  updated.StartTime,
		OccurredAt: time.Now(),
	})

	return updated, nil
}

// SetStatus runs the status machine and persists the new state.
func (s *Service) SetStatus(ctx context.Context, ownerID, id string, requested model.Status) (*model.Task, error) {
	current, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		metrics.IncrementTaskOperation("set_status", "rejected")
		return nil, err
	}

	next, err := Transition(current.Status, requested)
	if err != nil {
		s.logger.Warn("Rejected status transition",
			zap.String("task_id", id),
			zap.String("current", string(current.Status)),
			zap.String("requested", string(requested)),
		)
		metrics.IncrementTaskOperation("set_status", "rejected")
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, model.TaskPatch{Status: &next})
	if err != nil {
		metrics.IncrementTaskOperation("set_status", "error")
		return nil, err
	}

	s.logger.Info("Task status changed",
		zap.String("task_id", id),
		zap.String("owner_id", ownerID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)
	metrics.IncrementTaskOperation("set_status", "success")

	s.weekCache.Invalidate(ctx, ownerID)
	s.publish(events.TaskStatusChanged, events.TaskEventPayload{
		TaskID:     updated.ID,
		OwnerID:    updated.OwnerID,
		Title:      updated.Title,
		Status:     updated.Status,
		StartTime:  updated.StartTime,
		OccurredAt: time.Now(),
	})

	return updated, nil
}

// DeleteTask removes the owner's task.
func (s *Service) DeleteTask(ctx context.Context, ownerID, id string) error {
	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		metrics.IncrementTaskOperation("delete", "rejected")
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		metrics.IncrementTaskOperation("delete", "error")
		return err
	}

	s.logger.Info("Task deleted",
		zap.String("task_id", id),
		zap.String("owner_id", ownerID),
	)
	metrics.IncrementTaskOperation("delete", "success")

	s.weekCache.Invalidate(ctx, ownerID)
	s.publish(events.TaskDeleted, events.TaskDeletedPayload{
		TaskID:     id,
		OwnerID:    ownerID,
		OccurredAt: time.Now(),
	})

	return nil
}

// fetchOwned loads a task and enforces that it belongs to ownerID.
func (s *Service) fetchOwned(ctx context.Context, ownerID, id string) (*model.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		s.logger.Warn("Cross-owner task access denied",
			zap.String("task_id", id),
			zap.String("owner_id", ownerID),
		)
		return nil, ErrForbidden
	}
	return task, nil
}

// publish sends a lifecycle event. Broker failures are logged and
// swallowed; the write already committed and the caller's result must
// not depend on the broker.
func (s *Service) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish task event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "required"}
	}
	return validateLength("title", title, model.MaxTitleLen)
}

func validateLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{Field: field, Message: "too long"}
	}
	return nil
}

func validatePatch(patch model.TaskPatch) error {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := validateLength("description", *patch.Description, model.MaxDescriptionLen); err != nil {
			return err
		}
	}
	if patch.Notes != nil {
		if err := validateLength("notes", *patch.Notes, model.MaxNotesLen); err != nil {
			return err
		}
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "must be one of low, mid, high"}
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return &ValidationError{Field: "category", Message: "must be one of work, study, personal, health, other"}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return &ValidationError{Field: "status", Message: "must be one of pending, in-progress, completed"}
	}
	return nil
}
