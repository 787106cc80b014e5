package model

import "time"

// Task status values.  The zero value of a task's status in requests means
// "not provided"; new tasks default to StatusPending.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the enumerated task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a to-do item owned by exactly one user.  Every query and
// mutation against the `tasks` table is scoped by UserID.
type Task struct {
	ID          string    `json:"id"`          // tasks.id
	Title       string    `json:"title"`       // tasks.title
	Description string    `json:"description"` // tasks.description (empty when NULL)
	Status      string    `json:"status"`      // tasks.status
	UserID      string    `json:"userId"`      // tasks.user_id
	CreatedAt   time.Time `json:"createdAt"`   // tasks.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // tasks.updated_at
}
