package repository

import (
	"context"

	"github.com/velizarh/taskboard/internal/model"
)

// UserStore is the persistence contract for user accounts.  Create hashes
// the password itself so no caller ever persists plaintext.
type UserStore interface {
	Create(ctx context.Context, email, password, name string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// TaskStore is the persistence contract for tasks.  Every method takes the
// owning user's ID and operates only on that user's rows.
type TaskStore interface {
	Create(ctx context.Context, userID, title, description, status string) (model.Task, error)
	GetByID(ctx context.Context, userID, id string) (model.Task, error)
	List(ctx context.Context, userID string, q TaskListQuery) ([]model.Task, int64, error)
	Update(ctx context.Context, userID, id string, patch TaskPatch) (model.Task, error)
	Delete(ctx context.Context, userID, id string) error
}
