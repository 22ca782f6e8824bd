// Package engine orchestrates extraction, confirmation, and task
// lifecycle on top of the core packages.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskwright/internal/core/eventbus"
	"github.com/colonyops/taskwright/internal/core/extract"
	"github.com/colonyops/taskwright/internal/core/schedule"
	"github.com/colonyops/taskwright/internal/core/task"
	"github.com/colonyops/taskwright/internal/core/template"
)

// ErrNoPending is returned by Confirm when no confirmation is pending.
var ErrNoPending = errors.New("no pending confirmation")

// relatedLimit caps how many similar existing tasks are attached to each
// proposal candidate.
const relatedLimit = 3

// Candidate is an extracted candidate enriched with template suggestions
// and similar existing tasks.
type Candidate struct {
	extract.Candidate
	Templates []template.Template    `json:"templates,omitempty"`
	Related   []template.RelatedTask `json:"related,omitempty"`
}

// Pending is a proposal awaiting confirmation. At most one exists; a new
// extraction replaces it.
type Pending struct {
	Candidates []Candidate `json:"candidates"`
	MessageID  string      `json:"message_id,omitempty"`
	FolioID    string      `json:"folio_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Override carries per-candidate review choices applied at confirmation.
type Override struct {
	// TemplateType selects a template to apply; empty applies none.
	TemplateType string
	// Category replaces the candidate's category when set.
	Category task.Category
	// Skip drops the candidate without creating a task.
	Skip bool
}

// Manager runs the end-to-end workflow: message in, proposal out, tasks on
// confirmation. It holds the single pending-confirmation slot.
type Manager struct {
	store task.Store
	sched *Scheduler
	bus   *eventbus.EventBus
	log   zerolog.Logger
	opts  extract.Options
	now   func() time.Time

	mu      sync.Mutex
	pending *Pending
}

// NewManager creates a manager.
func NewManager(store task.Store, sched *Scheduler, bus *eventbus.EventBus, opts extract.Options, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		sched: sched,
		bus:   bus,
		log:   log.With().Str("component", "manager").Logger(),
		opts:  opts,
		now:   time.Now,
	}
}

// SetClock overrides the manager's time source. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// HandleMessage extracts candidate tasks from a message, enriches them
// with template suggestions and related existing tasks, and stores them as
// the pending confirmation. Returns nil when nothing was extracted; an
// existing pending confirmation is left untouched in that case. When
// candidates are found, any previous pending confirmation is silently
// replaced.
func (m *Manager) HandleMessage(ctx context.Context, text, messageID, folioID string) (*Pending, error) {
	candidates := extract.Extract(text, m.opts)
	if len(candidates) == 0 {
		m.log.Debug().Str("message_id", messageID).Msg("no task candidates in message")
		return nil, nil
	}

	existing, err := m.store.List(ctx, task.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks for similarity search: %w", err)
	}

	enriched := make([]Candidate, len(candidates))
	for i, c := range candidates {
		enriched[i] = Candidate{
			Candidate: c,
			Templates: template.Detect(c.Text, text),
			Related:   template.FindRelated(existing, c.Text, c.Category, relatedLimit),
		}
	}

	pending := &Pending{
		Candidates: enriched,
		MessageID:  messageID,
		FolioID:    folioID,
		Timestamp:  m.now(),
	}

	m.mu.Lock()
	if m.pending != nil {
		m.log.Debug().Str("replaced_message_id", m.pending.MessageID).Msg("replacing pending confirmation")
	}
	m.pending = pending
	m.mu.Unlock()

	m.log.Info().
		Str("message_id", messageID).
		Int("candidates", len(enriched)).
		Msg("extraction proposal ready")

	m.bus.PublishConfirmationPending(eventbus.ConfirmationPendingPayload{
		MessageID:  messageID,
		Candidates: len(enriched),
	})

	return pending, nil
}

// Pending returns a copy of the current pending confirmation, or nil.
// Mutating the result does not touch the pending slot.
func (m *Manager) Pending() *Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	cp := *m.pending
	cp.Candidates = append([]Candidate(nil), m.pending.Candidates...)
	return &cp
}

// Confirm creates a persisted task for each pending candidate, applying
// per-candidate overrides, then clears the pending state. Returns
// ErrNoPending when nothing is awaiting confirmation.
func (m *Manager) Confirm(ctx context.Context, overrides map[int]Override) ([]task.Task, error) {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending == nil {
		return nil, ErrNoPending
	}

	now := m.now()
	created := make([]task.Task, 0, len(pending.Candidates))
	for i, c := range pending.Candidates {
		ov := overrides[i]
		if ov.Skip {
			continue
		}

		t := task.Task{
			Title:     c.Text,
			Category:  c.Category,
			MessageID: pending.MessageID,
			FolioID:   pending.FolioID,
			Context:   c.Context,
		}

		if c.Date != nil {
			if due, ok := schedule.ParseDate(c.Date.Raw, now); ok {
				t.DueDate = &due
			}
		}

		if ov.TemplateType != "" {
			if tpl, ok := template.ByType(ov.TemplateType); ok {
				m.applyTemplate(&t, tpl)
			}
		}

		if ov.Category != "" {
			t.Category = ov.Category
		}

		stored, err := m.store.Create(ctx, t)
		if err != nil {
			return created, fmt.Errorf("create task %q: %w", t.Title, err)
		}
		created = append(created, stored)

		m.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: &stored})
	}

	m.log.Info().
		Str("message_id", pending.MessageID).
		Int("created", len(created)).
		Msg("confirmation resolved")

	m.bus.PublishConfirmationResolved(eventbus.ConfirmationResolvedPayload{
		Confirmed: true,
		Created:   len(created),
	})
	m.notifyTasksUpdated(ctx)

	return created, nil
}

// applyTemplate attaches a template's checklist, category, and time
// estimate to a task. The estimate is corrected by the learning model when
// it has enough history for the template or category.
func (m *Manager) applyTemplate(t *task.Task, tpl template.Template) {
	t.TemplateApplied = tpl.Type
	t.Category = tpl.Category

	t.Subtasks = make([]task.Subtask, len(tpl.Subtasks))
	for i, title := range tpl.Subtasks {
		t.Subtasks[i] = task.Subtask{Title: title}
	}

	est, ok := schedule.ParseTimeEstimate(tpl.EstimatedTime)
	if !ok {
		return
	}
	improved := m.sched.ImprovedEstimate(tpl.Category, tpl.Type, est)
	t.TimeTracking.EstimatedMinutes = improved.Adjusted
	if improved.Confidence > 0 {
		m.log.Debug().
			Str("template", tpl.Type).
			Int("original", improved.Original).
			Int("adjusted", improved.Adjusted).
			Float64("confidence", improved.Confidence).
			Str("source", improved.Source).
			Msg("estimate adjusted from history")
	}
}

// Cancel clears the pending confirmation without creating tasks. Reports
// whether one was pending.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	had := m.pending != nil
	m.pending = nil
	m.mu.Unlock()

	if had {
		m.bus.PublishConfirmationResolved(eventbus.ConfirmationResolvedPayload{Confirmed: false})
	}
	return had
}

// StartTask begins time tracking for a task.
func (m *Manager) StartTask(ctx context.Context, id int64) (task.Task, error) {
	return m.sched.Start(ctx, id)
}

// CompleteTask completes a task with time tracking.
func (m *Manager) CompleteTask(ctx context.Context, id int64) (task.Task, error) {
	return m.sched.Complete(ctx, id)
}

// DeleteTask removes a task. Reports whether anything was removed.
func (m *Manager) DeleteTask(ctx context.Context, id int64) (bool, error) {
	removed, err := m.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	if removed {
		m.notifyTasksUpdated(ctx)
	}
	return removed, nil
}

// UpdateTask applies a mutation to a task and notifies subscribers.
func (m *Manager) UpdateTask(ctx context.Context, id int64, fn func(*task.Task)) (task.Task, error) {
	updated, err := m.store.Update(ctx, id, fn)
	if err != nil {
		return task.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	m.notifyTasksUpdated(ctx)
	return updated, nil
}

// GetTask returns a task by id.
func (m *Manager) GetTask(ctx context.Context, id int64) (task.Task, error) {
	return m.store.Get(ctx, id)
}

// Tasks returns tasks matching the filter.
func (m *Manager) Tasks(ctx context.Context, f task.Filter) ([]task.Task, error) {
	return m.store.List(ctx, f)
}

// OverdueTasks returns non-completed tasks past their due date.
func (m *Manager) OverdueTasks(ctx context.Context) ([]task.Task, error) {
	return m.store.Overdue(ctx, m.now())
}

// TodayTasks returns tasks due on the current calendar day.
func (m *Manager) TodayTasks(ctx context.Context) ([]task.Task, error) {
	return m.store.DueOn(ctx, m.now())
}

// Statistics aggregates task counts.
func (m *Manager) Statistics(ctx context.Context) (task.Statistics, error) {
	return m.store.Statistics(ctx, m.now())
}

// CleanupOldTasks deletes completed tasks older than daysOld days.
func (m *Manager) CleanupOldTasks(ctx context.Context, daysOld int) (int, error) {
	cutoff := m.now().AddDate(0, 0, -daysOld)
	deleted, err := m.store.CleanupCompleted(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old tasks: %w", err)
	}
	if deleted > 0 {
		m.log.Info().Int("deleted", deleted).Int("days_old", daysOld).Msg("pruned completed tasks")
		m.notifyTasksUpdated(ctx)
	}
	return deleted, nil
}

// ExportVersion is the export format version.
const ExportVersion = "2.0"

// Export is the JSON-serializable export bundle.
type Export struct {
	Tasks      []task.Task     `json:"tasks"`
	Statistics task.Statistics `json:"statistics"`
	ExportedAt time.Time       `json:"exported_at"`
	Version    string          `json:"version"`
}

// ExportTasks returns all tasks with statistics in the export format.
func (m *Manager) ExportTasks(ctx context.Context) (Export, error) {
	tasks, err := m.store.List(ctx, task.Filter{})
	if err != nil {
		return Export{}, fmt.Errorf("export tasks: %w", err)
	}
	stats, err := m.store.Statistics(ctx, m.now())
	if err != nil {
		return Export{}, fmt.Errorf("export statistics: %w", err)
	}
	return Export{
		Tasks:      tasks,
		Statistics: stats,
		ExportedAt: m.now(),
		Version:    ExportVersion,
	}, nil
}

func (m *Manager) notifyTasksUpdated(ctx context.Context) {
	tasks, err := m.store.List(ctx, task.Filter{})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to list tasks for update event")
		return
	}
	m.bus.PublishTasksUpdated(eventbus.TasksUpdatedPayload{Tasks: tasks})
}
