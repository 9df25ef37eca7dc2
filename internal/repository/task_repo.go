package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/internal/schedule"
	"github.com/M4yankkkk/ChronoTask/pkg/metrics"
)

const taskColumns = `id, owner_id, title, description, start_time, end_time,
	priority, category, status, notes, color, created_at, updated_at`

// TaskRepository is the PostgreSQL task store. Updates run as single
// UPDATE statements, so concurrent writes to the same record serialize on
// the row lock and never interleave into a corrupted record.
type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// EnsureSchema creates the tasks table and its indexes if missing.
func (r *TaskRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time  TIMESTAMPTZ NOT NULL,
			end_time    TIMESTAMPTZ NOT NULL,
			priority    TEXT NOT NULL DEFAULT 'mid',
			category    TEXT NOT NULL DEFAULT 'other',
			status      TEXT NOT NULL DEFAULT 'pending',
			notes       TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '#3B82F6',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_owner_start ON tasks(owner_id, start_time)`)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_owner_status ON tasks(owner_id, status)`)
	return err
}

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	started := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "tasks", time.Since(started)) }()

	stored := *t
	stored.ID = uuid.Must(uuid.NewV7()).String()

	r.logger.Debug("Inserting task",
		zap.String("owner_id", stored.OwnerID),
		zap.String("title", stored.Title),
	)

	query := `
        INSERT INTO tasks (id, owner_id, title, description, start_time, end_time,
            priority, category, status, notes, color)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		stored.ID,
		stored.OwnerID,
		stored.Title,
		stored.Description,
		stored.StartTime,
		stored.EndTime,
		stored.Priority,
		stored.Category,
		stored.Status,
		stored.Notes,
		stored.Color,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("owner_id", stored.OwnerID),
		)
		return nil, storeErr(err)
	}

	r.logger.Info("Task inserted successfully",
		zap.String("task_id", stored.ID),
		zap.String("owner_id", stored.OwnerID),
	)
	return &stored, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	started := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "tasks", time.Since(started)) }()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.StartTime, &t.EndTime,
		&t.Priority, &t.Category, &t.Status,
		&t.Notes, &t.Color,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	return &t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE owner_id = $1
        ORDER BY start_time ASC
    `
	return r.queryTasks(ctx, query, ownerID)
}

func (r *TaskRepository) ListByOwnerInWindow(ctx context.Context, ownerID string, start, end time.Time) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE owner_id = $1 AND start_time >= $2 AND start_time <= $3
        ORDER BY start_time ASC
    `
	return r.queryTasks(ctx, query, ownerID, start, end)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	started := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "tasks", time.Since(started)) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, storeErr(err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Description,
			&t.StartTime, &t.EndTime,
			&t.Priority, &t.Category, &t.Status,
			&t.Notes, &t.Color,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, storeErr(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	started := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "tasks", time.Since(started)) }()

	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		add("end_time", *patch.EndTime)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}

	query := `
        UPDATE tasks SET ` + strings.Join(sets, ", ") + `
        WHERE id = $1
        RETURNING ` + taskColumns

	var t model.Task
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.StartTime, &t.EndTime,
		&t.Priority, &t.Category, &t.Status,
		&t.Notes, &t.Color,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return nil, storeErr(err)
	}
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	started := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "tasks", time.Since(started)) }()

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return storeErr(err)
	}
	if result.RowsAffected() == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

// storeErr classifies driver errors into the service taxonomy. Unknown
// rows become ErrNotFound; everything else (timeouts, cancellations,
// lost connections) surfaces as ErrStoreUnavailable so callers can retry
// with backoff without ever seeing raw driver errors.
func storeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return schedule.ErrNotFound
	}
	return fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
}
