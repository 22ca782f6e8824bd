// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within taskwright.
package eventbus

import "github.com/colonyops/taskwright/internal/core/task"

// Event identifies a bus event type.
type Event string

// All bus events. Keep list sorted A-Z.
const (
	EventConfirmationPending  Event = "confirmation.pending"
	EventConfirmationResolved Event = "confirmation.resolved"
	EventTaskCreated          Event = "task.created"
	EventTasksUpdated         Event = "tasks.updated"
)

// ConfirmationPendingPayload is emitted when an extraction produces a
// proposal awaiting confirmation.
type ConfirmationPendingPayload struct {
	MessageID  string
	Candidates int
}

// ConfirmationResolvedPayload is emitted when a pending confirmation is
// confirmed or cancelled.
type ConfirmationResolvedPayload struct {
	Confirmed bool
	Created   int
}

// TaskCreatedPayload is emitted for each task created from a confirmation.
type TaskCreatedPayload struct {
	Task *task.Task
}

// TasksUpdatedPayload is emitted after any task-list mutation and carries
// the current full task list.
type TasksUpdatedPayload struct {
	Tasks []task.Task
}
