package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskwright/internal/core/eventbus"
	"github.com/colonyops/taskwright/internal/core/learning"
	"github.com/colonyops/taskwright/internal/core/task"
)

// ErrAlreadyCompleted is returned when a timer operation targets a
// completed task. Completed is terminal; there is no reopen transition.
var ErrAlreadyCompleted = errors.New("task already completed")

// LearningPersister stores the learning-model snapshot durably.
type LearningPersister interface {
	SaveLearning(ctx context.Context, sn learning.Snapshot) error
}

// Scheduler owns the task-timer lifecycle and the adaptive learning model.
// It mutates tasks through the store and records completion outcomes into
// the per-category and per-template accuracy buffers.
type Scheduler struct {
	store   task.Store
	learn   *learning.Stats
	persist LearningPersister
	bus     *eventbus.EventBus
	log     zerolog.Logger
	now     func() time.Time
}

// NewScheduler creates a scheduler. The learning stats are typically
// rebuilt from the store's persisted snapshot at startup.
func NewScheduler(store task.Store, learn *learning.Stats, persist LearningPersister, bus *eventbus.EventBus, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:   store,
		learn:   learn,
		persist: persist,
		bus:     bus,
		log:     log.With().Str("component", "scheduler").Logger(),
		now:     time.Now,
	}
}

// SetClock overrides the scheduler's time source. Intended for tests.
func (s *Scheduler) SetClock(now func() time.Time) { s.now = now }

// Start begins time tracking: sets the started timestamp and moves the
// task to in-progress. Starting an already started task keeps the original
// timestamp.
func (s *Scheduler) Start(ctx context.Context, id int64) (task.Task, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("start task %d: %w", id, err)
	}
	if current.Status == task.StatusCompleted {
		return task.Task{}, ErrAlreadyCompleted
	}

	now := s.now()
	updated, err := s.store.Update(ctx, id, func(t *task.Task) {
		if t.TimeTracking.StartedAt == nil {
			t.TimeTracking.StartedAt = &now
		}
		t.Status = task.StatusInProgress
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("start task %d: %w", id, err)
	}

	s.log.Info().Int64("id", id).Msg("task timer started")
	s.notifyTasksUpdated(ctx)
	return updated, nil
}

// Complete finishes a task with tracking: sets completed status and
// timestamp, derives actual minutes from the running timer, computes
// estimate accuracy when an estimate exists, and records the outcome into
// the learning model. A failed learning-snapshot save is returned; the
// task state change has already been persisted at that point.
func (s *Scheduler) Complete(ctx context.Context, id int64) (task.Task, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("complete task %d: %w", id, err)
	}
	if current.Status == task.StatusCompleted {
		return task.Task{}, ErrAlreadyCompleted
	}

	now := s.now()
	updated, err := s.store.Update(ctx, id, func(t *task.Task) {
		t.Status = task.StatusCompleted
		t.TimeTracking.CompletedAt = &now

		if t.TimeTracking.StartedAt == nil {
			return
		}
		actual := int(math.Round(now.Sub(*t.TimeTracking.StartedAt).Minutes()))
		t.TimeTracking.ActualMinutes = &actual

		if est := t.TimeTracking.EstimatedMinutes; est > 0 {
			acc := accuracy(est, actual)
			t.TimeTracking.Accuracy = &acc
		}
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("complete task %d: %w", id, err)
	}

	if err := s.recordOutcome(ctx, updated); err != nil {
		return task.Task{}, fmt.Errorf("complete task %d: %w", id, err)
	}
	s.notifyTasksUpdated(ctx)
	return updated, nil
}

// accuracy is max(0, 1 - |actual-estimated|/estimated) rounded to two
// decimals.
func accuracy(estimated, actual int) float64 {
	acc := 1 - math.Abs(float64(actual-estimated))/float64(estimated)
	if acc < 0 {
		acc = 0
	}
	return math.Round(acc*100) / 100
}

// recordOutcome feeds a completed task's tracking result into the learning
// model and persists the snapshot. Tasks without both estimate and actual
// contribute nothing.
func (s *Scheduler) recordOutcome(ctx context.Context, t task.Task) error {
	tt := t.TimeTracking
	if tt.EstimatedMinutes <= 0 || tt.ActualMinutes == nil || tt.Accuracy == nil || tt.CompletedAt == nil {
		return nil
	}

	rec := learning.Record{
		Estimated:   tt.EstimatedMinutes,
		Actual:      *tt.ActualMinutes,
		Accuracy:    *tt.Accuracy,
		Ratio:       float64(*tt.ActualMinutes) / float64(tt.EstimatedMinutes),
		TaskTitle:   t.Title,
		CompletedAt: *tt.CompletedAt,
	}
	s.learn.Observe(string(t.Category), t.TemplateApplied, rec)

	if err := s.persist.SaveLearning(ctx, s.learn.Snapshot()); err != nil {
		return fmt.Errorf("persist learning stats: %w", err)
	}

	s.log.Info().
		Int64("id", t.ID).
		Int("estimated", rec.Estimated).
		Int("actual", rec.Actual).
		Float64("accuracy", rec.Accuracy).
		Msg("recorded completion outcome")
	return nil
}

// ImprovedEstimate corrects a time estimate using accumulated accuracy
// history for the category and template type.
func (s *Scheduler) ImprovedEstimate(category task.Category, templateType string, original int) learning.Estimate {
	return s.learn.Improve(string(category), templateType, original)
}

// LearningSummary reports the current state of the learning model.
func (s *Scheduler) LearningSummary() learning.Summary {
	return s.learn.Summarize()
}

func (s *Scheduler) notifyTasksUpdated(ctx context.Context) {
	tasks, err := s.store.List(ctx, task.Filter{})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tasks for update event")
		return
	}
	s.bus.PublishTasksUpdated(eventbus.TasksUpdatedPayload{Tasks: tasks})
}
