package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/apperr"
	"github.com/taskhub/taskhub-api/internal/middleware"
	"github.com/taskhub/taskhub-api/internal/model"
	"github.com/taskhub/taskhub-api/internal/repository"
)

// TaskStore is the slice of the task repository the handlers need.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Task, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id uint64) error
}

// TaskHandler serves the per-user task CRUD. Every route sits behind the
// request gate; ownership is enforced here on reads and writes by id.
type TaskHandler struct {
	Tasks TaskStore
}

func NewTaskHandler(tasks TaskStore) *TaskHandler { return &TaskHandler{Tasks: tasks} }

type taskReq struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// Create adds a task owned by the caller.
func (h *TaskHandler) Create(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	var req taskReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}
	if req.Status == "" {
		req.Status = model.TaskPending
	}
	if !model.ValidTaskStatus(req.Status) {
		return apperr.Respond(c, apperr.New(apperr.KindValidation, "unknown task status"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task := model.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	id, err := h.Tasks.Create(ctx, task)
	if err != nil {
		return apperr.Respond(c, err)
	}
	created, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List returns the caller's tasks, newest first.
func (h *TaskHandler) List(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get returns one of the caller's tasks by id.
func (h *TaskHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.ownedTask(ctx, c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// Update rewrites the mutable fields of one of the caller's tasks.
func (h *TaskHandler) Update(c echo.Context) error {
	var req taskReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}
	if req.Status != "" && !model.ValidTaskStatus(req.Status) {
		return apperr.Respond(c, apperr.New(apperr.KindValidation, "unknown task status"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.ownedTask(ctx, c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	task.Title = req.Title
	task.Description = req.Description
	if req.Status != "" {
		task.Status = req.Status
	}
	task.DueDate = req.DueDate

	if err := h.Tasks.Update(ctx, task); err != nil {
		return apperr.Respond(c, err)
	}
	updated, err := h.Tasks.GetByID(ctx, task.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.ownedTask(ctx, c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.Tasks.Delete(ctx, task.ID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedTask loads the task named by the :id param and checks that the
// caller owns it.
func (h *TaskHandler) ownedTask(ctx context.Context, c echo.Context) (model.Task, error) {
	user, _ := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return model.Task{}, apperr.New(apperr.KindValidation, "invalid task id")
	}
	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, apperr.New(apperr.KindNotFound, "task not found")
		}
		return model.Task{}, err
	}
	if task.UserID != user.ID {
		return model.Task{}, apperr.New(apperr.KindForbidden, "task belongs to another user")
	}
	return task, nil
}
