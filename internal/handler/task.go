package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velizarh/taskboard/internal/model"
	"github.com/velizarh/taskboard/internal/repository"
	"github.com/velizarh/taskboard/internal/validator"
)

// TaskHandler implements the ownership-scoped task CRUD endpoints.  Every
// handler resolves the acting user from the request context first; the
// store never sees a request without a user ID.
type TaskHandler struct {
	Tasks repository.TaskStore
}

func NewTaskHandler(tasks repository.TaskStore) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// ----- DTOs -----

type createTaskReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *string `json:"status"`
}

// updateTaskReq uses pointers throughout: an absent field and an empty
// field are different things in a partial update.
type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type taskListData struct {
	Tasks      []model.Task          `json:"tasks"`
	Pagination repository.Pagination `json:"pagination"`
}

// List returns one page of the user's tasks honoring the status, search,
// date-range and pagination query parameters.
func (h *TaskHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	q, errs := parseListQuery(c)
	if errs.HasErrors() {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, total, err := h.Tasks.List(ctx, uid, q)
	if err != nil {
		return err
	}

	// List normalized its own copy of q; mirror that here so the
	// pagination block reports the effective page and limit.
	q.Normalize()
	return respond(c, http.StatusOK, "", taskListData{
		Tasks:      tasks,
		Pagination: repository.NewPagination(total, q.Page, q.PageSize),
	})
}

// Create stores a new task for the user.  Title is required; status
// defaults to pending.
func (h *TaskHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if errs := validator.ValidateTaskCreate(req.Title, req.Status); errs.HasErrors() {
		return failValidation(c, errs)
	}

	status := ""
	if req.Status != nil {
		status = *req.Status
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Create(ctx, uid, req.Title, req.Description, status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Task created successfully", echo.Map{"task": t})
}

// Get returns a single task.  Tasks of other users answer 404, never 403.
func (h *TaskHandler) Get(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Task not found")
		}
		return err
	}
	return respond(c, http.StatusOK, "", echo.Map{"task": t})
}

// Update applies a partial patch: only fields present in the body change.
func (h *TaskHandler) Update(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if errs := validator.ValidateTaskUpdate(req.Title, req.Status); errs.HasErrors() {
		return failValidation(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Update(ctx, uid, c.Param("id"), repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Task not found")
		}
		return err
	}
	return respond(c, http.StatusOK, "Task updated successfully", echo.Map{"task": t})
}

// Delete permanently removes a task.  A second delete of the same task
// answers 404.
func (h *TaskHandler) Delete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, uid, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Task not found")
		}
		return err
	}
	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}

// parseListQuery reads the list filters from the query string.  Page and
// limit silently fall back to their defaults when malformed; dates must be
// YYYY-MM-DD or RFC 3339, and endDate given as a bare date is extended to
// the end of that day so the range is inclusive.
func parseListQuery(c echo.Context) (repository.TaskListQuery, validator.ValidationErrors) {
	errs := make(validator.ValidationErrors)

	q := repository.TaskListQuery{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}
	if v := c.QueryParam("startDate"); v != "" {
		t, err := parseDate(v, false)
		if err != nil {
			errs.Add("startDate", "Invalid date, expected YYYY-MM-DD or RFC 3339")
		} else {
			q.StartDate = &t
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			errs.Add("endDate", "Invalid date, expected YYYY-MM-DD or RFC 3339")
		} else {
			q.EndDate = &t
		}
	}
	return q, errs
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
