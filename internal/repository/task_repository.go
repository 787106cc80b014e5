package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velizarh/taskboard/internal/model"
)

// TaskRepo persists tasks in the 'tasks' table.  All operations are scoped
// to the owning user: a task that belongs to someone else behaves exactly
// like a task that does not exist.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

const taskColumns = "id,title,description,status,user_id,created_at,updated_at"

// TaskPatch carries a partial update.  Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// Create inserts a task for the user and returns the stored record.
// Status defaults to pending when empty.
func (r *TaskRepo) Create(ctx context.Context, userID, title, description, status string) (model.Task, error) {
	if status == "" {
		status = model.StatusPending
	}
	t := model.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      status,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	t.UpdatedAt = t.CreatedAt

	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (id, title, description, status, user_id, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		t.ID, t.Title, nullable(t.Description), t.Status, t.UserID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// GetByID fetches a single task scoped to the user.  A task owned by a
// different user yields ErrNotFound.
func (r *TaskRepo) GetByID(ctx context.Context, userID, id string) (model.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=? AND user_id=? LIMIT 1",
		id, userID))
}

// List returns one page of the user's tasks matching q, newest first,
// together with the pre-pagination row count.
func (r *TaskRepo) List(ctx context.Context, userID string, q TaskListQuery) ([]model.Task, int64, error) {
	q.Normalize()
	cond, args := buildTaskFilter(userID, q)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE "+cond+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		t.Description = desc.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies a partial patch to a task scoped to the user and returns
// the updated record.  Only non-nil patch fields change; the row is read
// first so absent fields keep their stored values.
func (r *TaskRepo) Update(ctx context.Context, userID, id string, patch TaskPatch) (model.Task, error) {
	t, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return model.Task{}, err
	}

	set := []string{}
	args := []any{}
	if patch.Title != nil {
		t.Title = *patch.Title
		set = append(set, "title=?")
		args = append(args, t.Title)
	}
	if patch.Description != nil {
		t.Description = *patch.Description
		set = append(set, "description=?")
		args = append(args, nullable(t.Description))
	}
	if patch.Status != nil {
		t.Status = *patch.Status
		set = append(set, "status=?")
		args = append(args, t.Status)
	}
	if len(set) == 0 {
		return t, nil
	}

	t.UpdatedAt = time.Now().UTC()
	set = append(set, "updated_at=?")
	args = append(args, t.UpdatedAt, id, userID)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(set, ", ")+" WHERE id=? AND user_id=?",
		args...)
	if err != nil {
		return model.Task{}, err
	}
	// The row can vanish between the read and the write; a concurrent
	// delete then surfaces as not found rather than a silent no-op.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

// Delete permanently removes a task scoped to the user.  Deleting an
// already-deleted (or foreign) task returns ErrNotFound.
func (r *TaskRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row *sql.Row) (model.Task, error) {
	var t model.Task
	var desc sql.NullString
	err := row.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	t.Description = desc.String
	return t, nil
}
