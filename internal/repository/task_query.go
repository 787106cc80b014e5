package repository

import (
	"strings"
	"time"
)

// TaskListQuery defines filters & pagination for listing a user's tasks.
type TaskListQuery struct {
	Status    string     // exact status match; empty or "all" disables the filter
	Search    string     // case-insensitive substring match on title or description
	StartDate *time.Time // inclusive lower bound on created_at
	EndDate   *time.Time // inclusive upper bound on created_at
	Page      int        // 1-based page number
	PageSize  int        // rows per page
}

// Normalize clamps pagination parameters to usable values: page defaults
// to 1, page size to 10.
func (q *TaskListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
}

// buildTaskFilter translates a TaskListQuery into a WHERE condition and its
// arguments.  The owning user is always the first predicate; everything
// else is appended only when the filter is set, so the common unfiltered
// listing stays a single indexed lookup.
func buildTaskFilter(userID string, q TaskListQuery) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if q.Status != "" && q.Status != "all" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(COALESCE(description,'')) LIKE ?)")
		args = append(args, needle, needle)
	}
	if q.StartDate != nil {
		where = append(where, "created_at >= ?")
		args = append(args, q.StartDate.UTC())
	}
	if q.EndDate != nil {
		where = append(where, "created_at <= ?")
		args = append(args, q.EndDate.UTC())
	}

	return strings.Join(where, " AND "), args
}

// Pagination describes the page of results returned by List.  Pages is
// ceil(total/limit); zero when there are no rows at all.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination computes pagination metadata for a total row count.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}
