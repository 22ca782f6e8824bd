// Package task defines the task domain types and storage contracts.
package task

import "time"

// Category classifies a task by area of life.
type Category string

// Known task categories.
const (
	CategoryWork           Category = "work"
	CategoryPersonal       Category = "personal"
	CategoryCreative       Category = "creative"
	CategoryAdministrative Category = "administrative"
	CategoryGeneral        Category = "general"
)

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryWork,
		CategoryPersonal,
		CategoryCreative,
		CategoryAdministrative,
		CategoryGeneral,
	}
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryCreative, CategoryAdministrative, CategoryGeneral:
		return true
	}
	return false
}

// Status is the lifecycle state of a task.
type Status string

// Task lifecycle states. There is no reopen transition; completed is terminal.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority signals task urgency.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TimeTracking records estimate and actual time spent on a task.
//
// Invariants: ActualMinutes is set only after CompletedAt, which is set only
// after StartedAt. Accuracy is set iff both EstimatedMinutes and ActualMinutes
// are present.
type TimeTracking struct {
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ActualMinutes    *int       `json:"actual_minutes,omitempty"`
	Accuracy         *float64   `json:"accuracy,omitempty"`
}

// Subtask is a single checklist entry attached to a task.
type Subtask struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is a persisted, trackable unit of work. Owned exclusively by the
// store once created.
type Task struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Category        Category     `json:"category"`
	Status          Status       `json:"status"`
	Priority        Priority     `json:"priority"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	FolioID         string       `json:"folio_id,omitempty"`
	MessageID       string       `json:"message_id,omitempty"`
	TemplateApplied string       `json:"template_applied,omitempty"`
	TimeTracking    TimeTracking `json:"time_tracking"`
	Subtasks        []Subtask    `json:"subtasks,omitempty"`
	Context         string       `json:"context,omitempty"`
}

// Overdue reports whether the task has a due date in the past and is not
// completed.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// DueOn reports whether the task's due date falls on the same calendar day
// as the given time.
func (t *Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
