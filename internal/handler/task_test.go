package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-api/internal/auth"
	"github.com/taskhub/taskhub-api/internal/middleware"
	"github.com/taskhub/taskhub-api/internal/model"
	"github.com/taskhub/taskhub-api/internal/repository"
)

// fakeTasks is an in-memory TaskStore.
type fakeTasks struct {
	nextID uint64
	tasks  map[uint64]model.Task
}

func newFakeTasks() *fakeTasks { return &fakeTasks{tasks: map[uint64]model.Task{}} }

func (f *fakeTasks) Create(_ context.Context, t model.Task) (uint64, error) {
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return t.ID, nil
}

func (f *fakeTasks) GetByID(_ context.Context, id uint64) (model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) ListByUser(_ context.Context, userID uint64) ([]model.Task, error) {
	out := make([]model.Task, 0)
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Update(_ context.Context, t model.Task) error {
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id uint64) error {
	delete(f.tasks, id)
	return nil
}

// taskResolver serves the gate with two fixed users.
type taskResolver struct{}

func (taskResolver) GetByEmail(_ context.Context, email string) (model.User, error) {
	switch email {
	case "alice@example.com":
		return model.User{ID: 1, Email: email, Username: "alice"}, nil
	case "bob@example.com":
		return model.User{ID: 2, Email: email, Username: "bob"}, nil
	}
	return model.User{}, repository.ErrNotFound
}

func taskFixture(t *testing.T) (*echo.Echo, *fakeTasks, func(email string) string) {
	t.Helper()
	issuer := auth.NewIssuer(testSecret, time.Hour)
	store := newFakeTasks()
	h := NewTaskHandler(store)

	e := echo.New()
	e.Validator = NewValidator()
	e.Use(middleware.Authenticate(issuer, taskResolver{}))

	g := e.Group("/api", middleware.RequireUser())
	g.POST("/tasks", h.Create)
	g.GET("/tasks", h.List)
	g.GET("/tasks/:id", h.Get)
	g.PUT("/tasks/:id", h.Update)
	g.DELETE("/tasks/:id", h.Delete)

	token := func(email string) string {
		tok, err := issuer.Issue(email)
		require.NoError(t, err)
		return tok
	}
	return e, store, token
}

func doTask(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTaskCreateAndList(t *testing.T) {
	e, _, token := taskFixture(t)
	alice := token("alice@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"write report"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "write report", created.Title)
	assert.Equal(t, model.TaskPending, created.Status)
	assert.Equal(t, uint64(1), created.UserID)

	rec = doTask(e, http.MethodGet, "/api/tasks", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestTaskListIsScopedToOwner(t *testing.T) {
	e, _, token := taskFixture(t)
	alice := token("alice@example.com")
	bob := token("bob@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"alice's task"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doTask(e, http.MethodGet, "/api/tasks", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestTaskForeignAccessForbidden(t *testing.T) {
	e, _, token := taskFixture(t)
	alice := token("alice@example.com")
	bob := token("bob@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doTask(e, http.MethodGet, "/api/tasks/1", bob, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doTask(e, http.MethodDelete, "/api/tasks/1", bob, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskUpdate(t *testing.T) {
	e, store, token := taskFixture(t)
	alice := token("alice@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"draft"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doTask(e, http.MethodPut, "/api/tasks/1", alice,
		`{"title":"draft v2","status":"IN_PROGRESS"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := store.tasks[1]
	assert.Equal(t, "draft v2", updated.Title)
	assert.Equal(t, model.TaskInProgress, updated.Status)
}

func TestTaskUpdateRejectsUnknownStatus(t *testing.T) {
	e, _, token := taskFixture(t)
	alice := token("alice@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"draft"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doTask(e, http.MethodPut, "/api/tasks/1", alice,
		`{"title":"draft","status":"SOMEDAY"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskDelete(t *testing.T) {
	e, store, token := taskFixture(t)
	alice := token("alice@example.com")

	rec := doTask(e, http.MethodPost, "/api/tasks", alice, `{"title":"done soon"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doTask(e, http.MethodDelete, "/api/tasks/1", alice, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.tasks)

	rec = doTask(e, http.MethodGet, "/api/tasks/1", alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
