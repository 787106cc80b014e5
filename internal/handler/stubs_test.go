package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/velizarh/taskboard/internal/config"
	"github.com/velizarh/taskboard/internal/handler"
	"github.com/velizarh/taskboard/internal/model"
	"github.com/velizarh/taskboard/internal/repository"
	"github.com/velizarh/taskboard/internal/router"
	"github.com/velizarh/taskboard/internal/utils"
)

const testSecret = "test-secret"


// fakeUserStore is an in-memory repository.UserStore with the same
// contract as the MySQL implementation: normalized emails, hashed
// passwords, sentinel errors.
type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, password, name string, cost int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.byEmail[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byEmail[email] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

// fakeTaskStore mirrors the scoping, filtering and pagination rules of the
// MySQL task repository over a plain map.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task
	seq   int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]model.Task{}}
}

func (s *fakeTaskStore) Create(_ context.Context, userID, title, description, status string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == "" {
		status = model.StatusPending
	}
	s.seq++
	// Distinct creation times keep the newest-first ordering deterministic.
	now := time.Now().UTC().Add(time.Duration(s.seq) * time.Millisecond)
	t := model.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      status,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, userID, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getScoped(userID, id)
}

func (s *fakeTaskStore) getScoped(userID, id string) (model.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return model.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *fakeTaskStore) List(_ context.Context, userID string, q repository.TaskListQuery) ([]model.Task, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q.Normalize()

	matched := []model.Task{}
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if q.Status != "" && q.Status != "all" && t.Status != q.Status {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		if q.StartDate != nil && t.CreatedAt.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && t.CreatedAt.After(*q.EndDate) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (q.Page - 1) * q.PageSize
	if offset >= len(matched) {
		return []model.Task{}, total, nil
	}
	end := offset + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *fakeTaskStore) Update(_ context.Context, userID, id string, patch repository.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getScoped(userID, id)
	if err != nil {
		return model.Task{}, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now().UTC()
	s.tasks[id] = t
	return t, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getScoped(userID, id); err != nil {
		return err
	}
	delete(s.tasks, id)
	return nil
}

// ----- test server plumbing -----

func newServer(t *testing.T) (*echo.Echo, *fakeUserStore, *fakeTaskStore) {
	t.Helper()

	cfg := config.Config{
		Env:           "test",
		JWTSecret:     testSecret,
		TokenTTLHours: 1,
		BcryptCost:    bcrypt.MinCost,
	}
	users := newFakeUserStore()
	tasks := newFakeTaskStore()

	e := echo.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(false)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterTasks(e, handler.NewTaskHandler(tasks), cfg.JWTSecret)
	return e, users, tasks
}

// doJSON performs a request against the test server and decodes the
// response envelope.
func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	envelope := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, envelope
}

// registerUser creates an account and returns its token and user ID.
func registerUser(t *testing.T, e *echo.Echo, email string) (string, string) {
	t.Helper()

	code, env := doJSON(t, e, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", email, code, env)
	}
	data := env["data"].(map[string]any)
	token := data["token"].(string)
	user := data["user"].(map[string]any)
	return token, user["id"].(string)
}

func dataField(t *testing.T, env map[string]any, key string) map[string]any {
	t.Helper()
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", env)
	}
	v, ok := data[key].(map[string]any)
	if !ok {
		t.Fatalf("data has no %q object: %v", key, data)
	}
	return v
}
