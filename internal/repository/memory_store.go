package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/internal/schedule"
)

// MemoryTaskStore is the in-memory reference implementation of the task
// store contract. A single RWMutex makes every read-modify-write on a
// record atomic (last write wins); tasks are independent so no
// cross-record transaction exists. Used by tests and local runs.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]model.Task)}
}

func (s *MemoryTaskStore) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.Must(uuid.NewV7()).String()
	if _, exists := s.tasks[id]; exists {
		return nil, fmt.Errorf("task id conflict: %s", id)
	}

	now := time.Now().Truncate(time.Microsecond)
	stored := *t
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.tasks[id] = stored
	out := stored
	return &out, nil
}

func (s *MemoryTaskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, schedule.ErrNotFound
	}
	out := t
	return &out, nil
}

func (s *MemoryTaskStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []model.Task{}
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sortByStartTime(tasks)
	return tasks, nil
}

func (s *MemoryTaskStore) ListByOwnerInWindow(ctx context.Context, ownerID string, start, end time.Time) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []model.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		// Both bounds inclusive.
		if t.StartTime.Before(start) || t.StartTime.After(end) {
			continue
		}
		tasks = append(tasks, t)
	}
	sortByStartTime(tasks)
	return tasks, nil
}

func (s *MemoryTaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, schedule.ErrNotFound
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.StartTime != nil {
		t.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		t.EndTime = *patch.EndTime
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	t.UpdatedAt = time.Now().Truncate(time.Microsecond)

	s.tasks[id] = t
	out := t
	return &out, nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func sortByStartTime(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartTime.Equal(tasks[j].StartTime) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].StartTime.Before(tasks[j].StartTime)
	})
}
