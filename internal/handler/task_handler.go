package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/internal/schedule"
)

type TaskHandler struct {
	svc       *schedule.Service
	weekStart time.Weekday
	logger    *zap.Logger
}

func NewTaskHandler(svc *schedule.Service, weekStart time.Weekday, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, weekStart: weekStart, logger: logger}
}

type createTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Priority    model.Priority `json:"priority"`
	Category    model.Category `json:"category"`
	Notes       string         `json:"notes"`
	Color       string         `json:"color"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID := c.GetString("user_id")

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateTask: malformed body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "malformed request body"})
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), ownerID, schedule.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Priority:    req.Priority,
		Category:    req.Category,
		Notes:       req.Notes,
		Color:       req.Color,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ownerID := c.GetString("user_id")

	tasks, err := h.svc.ListAll(c.Request.Context(), ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetWeek(c *gin.Context) {
	ownerID := c.GetString("user_id")

	ref, weekStart, ok := h.weekParams(c)
	if !ok {
		return
	}

	tasks, err := h.svc.GetWeek(c.Request.Context(), ownerID, ref, weekStart)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetWeekProgress(c *gin.Context) {
	ownerID := c.GetString("user_id")

	ref, weekStart, ok := h.weekParams(c)
	if !ok {
		return
	}

	progress, err := h.svc.WeekProgress(c.Request.Context(), ownerID, ref, weekStart)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID := c.GetString("user_id")
	id := c.Param("id")

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("UpdateTask: malformed body",
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "malformed request body"})
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), ownerID, id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	ownerID := c.GetString("user_id")
	id := c.Param("id")

	var req struct {
		Status model.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "malformed request body"})
		return
	}

	task, err := h.svc.SetStatus(c.Request.Context(), ownerID, id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID := c.GetString("user_id")
	id := c.Param("id")

	if err := h.svc.DeleteTask(c.Request.Context(), ownerID, id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

// weekParams reads the reference date (path param, YYYY-MM-DD or RFC3339)
// and the optional week_start query override.
func (h *TaskHandler) weekParams(c *gin.Context) (time.Time, time.Weekday, bool) {
	raw := c.Param("date")

	ref, err := time.Parse("2006-01-02", raw)
	if err != nil {
		ref, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid date"})
		return time.Time{}, 0, false
	}

	weekStart := h.weekStart
	if q := c.Query("week_start"); q != "" {
		ws, err := schedule.ParseWeekStart(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "week_start must be sunday or monday"})
			return time.Time{}, 0, false
		}
		weekStart = ws
	}

	return ref, weekStart, true
}

// writeError maps service errors to stable machine-readable responses.
// Forbidden is reported as not_found so task existence never leaks across
// owners.
func (h *TaskHandler) writeError(c *gin.Context, err error) {
	if ve, ok := schedule.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   ve.Field,
			"message": ve.Message,
		})
		return
	}

	switch {
	case errors.Is(err, schedule.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval_error", "message": err.Error()})
	case errors.Is(err, schedule.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "message": "status must be one of pending, in-progress, completed"})
	case errors.Is(err, schedule.ErrNotFound), errors.Is(err, schedule.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "task not found"})
	case errors.Is(err, schedule.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable", "message": "task store unavailable, retry later"})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal server error"})
	}
}
