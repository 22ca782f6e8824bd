package task

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a task id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// Filter selects tasks by exact-match fields. Zero values match everything.
type Filter struct {
	Status   Status
	Category Category
	Priority Priority
	FolioID  string
	// DueOn matches tasks whose due date falls on the same calendar day.
	DueOn *time.Time
}

// Matches reports whether the task passes all set filter fields.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.FolioID != "" && t.FolioID != f.FolioID {
		return false
	}
	if f.DueOn != nil && !t.DueOn(*f.DueOn) {
		return false
	}
	return true
}

// Statistics aggregates task counts. Computed fresh on every call.
type Statistics struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"by_status"`
	ByCategory map[Category]int `json:"by_category"`
	ByPriority map[Priority]int `json:"by_priority"`
	Overdue    int              `json:"overdue"`
}

// Store is the persistence contract for tasks. Every mutation is followed
// by a full-state save in the backing implementation.
type Store interface {
	// Create assigns the next sequential id, fills defaults, timestamps
	// creation, persists, and returns the stored entity.
	Create(ctx context.Context, t Task) (Task, error)

	// Get returns a task by id. Returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id int64) (Task, error)

	// Update applies fn to the stored task under the store lock, refreshes
	// UpdatedAt, persists, and returns the updated entity. Returns
	// ErrNotFound if id is unknown.
	Update(ctx context.Context, id int64, fn func(*Task)) (Task, error)

	// Delete removes a task by id. Reports whether a task was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// List returns tasks matching the filter, in id order.
	List(ctx context.Context, f Filter) ([]Task, error)

	// Overdue returns non-completed tasks with a due date before now.
	Overdue(ctx context.Context, now time.Time) ([]Task, error)

	// DueOn returns tasks whose due date falls on the given calendar day.
	DueOn(ctx context.Context, day time.Time) ([]Task, error)

	// Statistics aggregates counts by status, category, and priority,
	// plus an overdue count relative to now.
	Statistics(ctx context.Context, now time.Time) (Statistics, error)

	// CleanupCompleted deletes completed tasks whose completion time
	// precedes the cutoff. Returns the number deleted.
	CleanupCompleted(ctx context.Context, cutoff time.Time) (int, error)
}
