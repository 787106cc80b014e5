package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, e *echo.Echo, token, title string, extra map[string]any) map[string]any {
	t.Helper()

	body := map[string]any{"title": title}
	for k, v := range extra {
		body[k] = v
	}
	code, env := doJSON(t, e, http.MethodPost, "/tasks", token, body)
	require.Equal(t, http.StatusCreated, code, "create %q: %v", title, env)
	return dataField(t, env, "task")
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	token, uid := registerUser(t, e, "create@example.com")

	task := createTask(t, e, token, "Write report", map[string]any{"description": "quarterly"})
	assert.Equal(t, "Write report", task["title"])
	assert.Equal(t, "quarterly", task["description"])
	assert.Equal(t, "pending", task["status"], "status must default to pending")
	assert.Equal(t, uid, task["userId"])

	explicit := createTask(t, e, token, "Ship it", map[string]any{"status": "in-progress"})
	assert.Equal(t, "in-progress", explicit["status"])
}

func TestCreateTask_Invalid(t *testing.T) {
	t.Parallel()
	e, _, tasks := newServer(t)
	token, _ := registerUser(t, e, "invalid@example.com")

	code, env := doJSON(t, e, http.MethodPost, "/tasks", token, map[string]any{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, env["success"])
	assert.Empty(t, tasks.tasks, "invalid input must not persist a record")

	code, _ = doJSON(t, e, http.MethodPost, "/tasks", token, map[string]any{"title": "   "})
	require.Equal(t, http.StatusBadRequest, code, "whitespace-only title is empty")

	code, _ = doJSON(t, e, http.MethodPost, "/tasks", token, map[string]any{"title": "ok", "status": "done"})
	require.Equal(t, http.StatusBadRequest, code, "unknown status value")

	code, _ = doJSON(t, e, http.MethodPost, "/tasks", "", map[string]any{"title": "nope"})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Empty(t, tasks.tasks)
}

func TestTaskOwnership(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	tokenA, _ := registerUser(t, e, "owner-a@example.com")
	tokenB, _ := registerUser(t, e, "owner-b@example.com")

	task := createTask(t, e, tokenA, "A's private task", nil)
	id := task["id"].(string)

	// B sees 404, not 403: existence must not leak.
	code, env := doJSON(t, e, http.MethodGet, "/tasks/"+id, tokenB, nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Task not found", env["message"])

	code, _ = doJSON(t, e, http.MethodDelete, "/tasks/"+id, tokenB, nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, e, http.MethodPut, "/tasks/"+id, tokenB, map[string]any{"title": "hijacked"})
	require.Equal(t, http.StatusNotFound, code)

	// B's listing never contains A's tasks.
	code, env = doJSON(t, e, http.MethodGet, "/tasks", tokenB, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, env["data"].(map[string]any)["tasks"])

	// The owner still has it, untouched.
	code, env = doJSON(t, e, http.MethodGet, "/tasks/"+id, tokenA, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A's private task", dataField(t, env, "task")["title"])
}

func TestListTasks_Pagination(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	token, _ := registerUser(t, e, "pager@example.com")

	first := createTask(t, e, token, "first", nil)
	second := createTask(t, e, token, "second", nil)

	code, env := doJSON(t, e, http.MethodGet, "/tasks?page=1&limit=1", token, nil)
	require.Equal(t, http.StatusOK, code)

	data := env["data"].(map[string]any)
	list := data["tasks"].([]any)
	require.Len(t, list, 1)
	// Newest first.
	assert.Equal(t, second["id"], list[0].(map[string]any)["id"])

	p := data["pagination"].(map[string]any)
	assert.EqualValues(t, 2, p["total"])
	assert.EqualValues(t, 1, p["page"])
	assert.EqualValues(t, 1, p["limit"])
	assert.EqualValues(t, 2, p["pages"])

	code, env = doJSON(t, e, http.MethodGet, "/tasks?page=2&limit=1", token, nil)
	require.Equal(t, http.StatusOK, code)
	list = env["data"].(map[string]any)["tasks"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, first["id"], list[0].(map[string]any)["id"])
}

func TestListTasks_Filters(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	token, _ := registerUser(t, e, "filter@example.com")

	createTask(t, e, token, "buy groceries", nil)
	createTask(t, e, token, "call plumber", map[string]any{"status": "completed"})
	createTask(t, e, token, "fix faucet", map[string]any{
		"status":      "completed",
		"description": "kitchen PLUMBING leak",
	})

	// Status filter returns only matching tasks.
	code, env := doJSON(t, e, http.MethodGet, "/tasks?status=completed", token, nil)
	require.Equal(t, http.StatusOK, code)
	list := env["data"].(map[string]any)["tasks"].([]any)
	require.Len(t, list, 2)
	for _, raw := range list {
		assert.Equal(t, "completed", raw.(map[string]any)["status"])
	}

	// status=all is the same as no filter.
	code, env = doJSON(t, e, http.MethodGet, "/tasks?status=all", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env["data"].(map[string]any)["tasks"].([]any), 3)

	// Search is case-insensitive and matches title or description.
	code, env = doJSON(t, e, http.MethodGet, "/tasks?search=plumb", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env["data"].(map[string]any)["tasks"].([]any), 2)

	// Malformed dates are rejected at the boundary, and the message names
	// both accepted formats.
	code, env = doJSON(t, e, http.MethodGet, "/tasks?startDate=yesterday", token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	fieldErrs := env["errors"].([]any)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "Invalid date, expected YYYY-MM-DD or RFC 3339", fieldErrs[0].(map[string]any)["message"])

	// Full RFC 3339 timestamps are accepted alongside plain dates.
	code, env = doJSON(t, e, http.MethodGet, "/tasks?startDate=2000-01-01T00:00:00Z", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env["data"].(map[string]any)["tasks"].([]any), 3)
}

func TestUpdateTask_Partial(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	token, _ := registerUser(t, e, "patch@example.com")

	task := createTask(t, e, token, "original title", map[string]any{"description": "original description"})
	id := task["id"].(string)

	// Updating only the status must leave title and description alone.
	code, env := doJSON(t, e, http.MethodPut, "/tasks/"+id, token, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, code)

	got := dataField(t, env, "task")
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, "original title", got["title"])
	assert.Equal(t, "original description", got["description"])

	// A supplied empty title is invalid on update.
	code, _ = doJSON(t, e, http.MethodPut, "/tasks/"+id, token, map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, e, http.MethodPut, "/tasks/"+id, token, map[string]any{"status": "nonsense"})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteTask_Twice(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)
	token, _ := registerUser(t, e, "delete@example.com")

	task := createTask(t, e, token, "doomed", nil)
	id := task["id"].(string)

	code, env := doJSON(t, e, http.MethodDelete, "/tasks/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env["success"])

	code, env = doJSON(t, e, http.MethodDelete, "/tasks/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Task not found", env["message"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	t.Parallel()
	e, _, _ := newServer(t)

	code, env := doJSON(t, e, http.MethodGet, fmt.Sprintf("/no-such-route-%d", 1), "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Route not found", env["message"])
}
