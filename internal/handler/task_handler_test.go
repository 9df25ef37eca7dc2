package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/handler"
	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/internal/repository"
	"github.com/M4yankkkk/ChronoTask/internal/schedule"
)

// newTestRouter wires the task routes behind a stub identity middleware
// so requests carry a fixed owner without real JWTs.
func newTestRouter(svc *schedule.Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := handler.NewTaskHandler(svc, time.Monday, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/api/todos", h.CreateTask)
	r.GET("/api/todos", h.ListTasks)
	r.GET("/api/todos/week/:date", h.GetWeek)
	r.GET("/api/todos/week/:date/progress", h.GetWeekProgress)
	r.PUT("/api/todos/:id", h.UpdateTask)
	r.PATCH("/api/todos/:id/status", h.UpdateStatus)
	r.DELETE("/api/todos/:id", h.DeleteTask)
	return r
}

func newService() *schedule.Service {
	return schedule.NewService(repository.NewMemoryTaskStore(), nil, nil, zap.NewNop())
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"title": "standup",
	"start_time": "2024-06-03T09:00:00Z",
	"end_time": "2024-06-03T10:00:00Z",
	"priority": "high"
}`

func TestCreateAndFetchWeek(t *testing.T) {
	svc := newService()
	r := newTestRouter(svc, "owner-a")

	w := doJSON(t, r, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.PriorityHigh, created.Priority)
	assert.Equal(t, model.StatusPending, created.Status)

	w = doJSON(t, r, http.MethodGet, "/api/todos/week/2024-06-05", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestCreateRejectsEmptyInterval(t *testing.T) {
	r := newTestRouter(newService(), "owner-a")

	body := `{
		"title": "standup",
		"start_time": "2024-06-03T09:00:00Z",
		"end_time": "2024-06-03T09:00:00Z"
	}`
	w := doJSON(t, r, http.MethodPost, "/api/todos", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "interval_error")
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	r := newTestRouter(newService(), "owner-a")

	body := `{
		"start_time": "2024-06-03T09:00:00Z",
		"end_time": "2024-06-03T10:00:00Z"
	}`
	w := doJSON(t, r, http.MethodPost, "/api/todos", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
	assert.Contains(t, w.Body.String(), "title")
}

func TestStatusToggle(t *testing.T) {
	svc := newService()
	r := newTestRouter(svc, "owner-a")

	w := doJSON(t, r, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPatch, "/api/todos/"+created.ID+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/todos/"+created.ID+"/status", `{"status":"pending"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var final model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	assert.Equal(t, model.StatusPending, final.Status)

	w = doJSON(t, r, http.MethodPatch, "/api/todos/"+created.ID+"/status", `{"status":"archived"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")
}

func TestForeignTaskReportsNotFound(t *testing.T) {
	svc := newService()

	owner := newTestRouter(svc, "owner-a")
	intruder := newTestRouter(svc, "owner-b")

	w := doJSON(t, owner, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Forbidden must be indistinguishable from not found.
	w = doJSON(t, intruder, http.MethodDelete, "/api/todos/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")

	w = doJSON(t, intruder, http.MethodPut, "/api/todos/"+created.ID, `{"title":"mine now"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWeekProgressEndpoint(t *testing.T) {
	svc := newService()
	r := newTestRouter(svc, "owner-a")

	w := doJSON(t, r, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPatch, "/api/todos/"+created.ID+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/todos/week/2024-06-05/progress", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p schedule.Progress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 1, p.Total)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
}

func TestWeekRejectsBadDateAndWeekStart(t *testing.T) {
	r := newTestRouter(newService(), "owner-a")

	w := doJSON(t, r, http.MethodGet, "/api/todos/week/not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/todos/week/2024-06-05?week_start=friday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// unavailableStore simulates a store whose every call times out or loses
// its connection.
type unavailableStore struct{}

func (unavailableStore) outage() error {
	return fmt.Errorf("%w: dial tcp 127.0.0.1:5432: connection refused", schedule.ErrStoreUnavailable)
}

func (s unavailableStore) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	return nil, s.outage()
}

func (s unavailableStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	return nil, s.outage()
}

func (s unavailableStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	return nil, s.outage()
}

func (s unavailableStore) ListByOwnerInWindow(ctx context.Context, ownerID string, start, end time.Time) ([]model.Task, error) {
	return nil, s.outage()
}

func (s unavailableStore) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	return nil, s.outage()
}

func (s unavailableStore) Delete(ctx context.Context, id string) error {
	return s.outage()
}

func TestStoreOutageReportsServiceUnavailable(t *testing.T) {
	svc := schedule.NewService(unavailableStore{}, nil, nil, zap.NewNop())
	r := newTestRouter(svc, "owner-a")

	w := doJSON(t, r, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "store_unavailable")
	// Driver detail never reaches the client.
	assert.NotContains(t, w.Body.String(), "dial tcp")

	w = doJSON(t, r, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/todos/week/2024-06-05", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/todos/some-id/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/todos/some-id", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeleteTaskEndpoint(t *testing.T) {
	svc := newService()
	r := newTestRouter(svc, "owner-a")

	w := doJSON(t, r, http.MethodPost, "/api/todos", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, "/api/todos/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/todos/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
