// Package jsonfile persists the whole engine state as a single JSON file.
// Every mutation rewrites the entire file through an atomic temp-file
// rename; there are no partial writes.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/colonyops/taskwright/internal/core/learning"
	"github.com/colonyops/taskwright/internal/core/task"
)

// State is the root JSON structure stored on disk.
type State struct {
	Tasks    []task.Task       `json:"tasks"`
	NextID   int64             `json:"next_id"`
	Learning learning.Snapshot `json:"learning,omitempty"`
}

// StateStore implements task.Store using a JSON file for persistence, and
// additionally persists the learning-model snapshot in the same file.
type StateStore struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

var _ task.Store = (*StateStore)(nil)

// New creates a store backed by the JSON file at path. The file is created
// on first save.
func New(path string) *StateStore {
	return &StateStore{path: path, now: time.Now}
}

// SetClock overrides the store's time source. Intended for tests.
func (s *StateStore) SetClock(now func() time.Time) { s.now = now }

// Create assigns the next sequential id, fills defaults, timestamps
// creation, persists, and returns the stored entity.
func (s *StateStore) Create(ctx context.Context, t task.Task) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return task.Task{}, err
	}

	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if t.Category == "" {
		t.Category = task.CategoryGeneral
	}

	t.ID = state.NextID
	state.NextID++

	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	state.Tasks = append(state.Tasks, t)

	if err := s.save(state); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Get returns a task by id. Returns task.ErrNotFound if id is unknown.
func (s *StateStore) Get(ctx context.Context, id int64) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return task.Task{}, err
	}

	for _, t := range state.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

// Update applies fn to the stored task, refreshes UpdatedAt, and persists.
// Returns task.ErrNotFound if id is unknown.
func (s *StateStore) Update(ctx context.Context, id int64, fn func(*task.Task)) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return task.Task{}, err
	}

	for i := range state.Tasks {
		if state.Tasks[i].ID != id {
			continue
		}

		fn(&state.Tasks[i])
		state.Tasks[i].ID = id // id is immutable
		state.Tasks[i].UpdatedAt = s.now()

		if err := s.save(state); err != nil {
			return task.Task{}, err
		}
		return state.Tasks[i], nil
	}

	return task.Task{}, task.ErrNotFound
}

// Delete removes a task by id. Persists only when something was removed.
func (s *StateStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return false, err
	}

	for i := range state.Tasks {
		if state.Tasks[i].ID != id {
			continue
		}
		state.Tasks = append(state.Tasks[:i], state.Tasks[i+1:]...)
		if err := s.save(state); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// List returns tasks matching the filter, in id order.
func (s *StateStore) List(ctx context.Context, f task.Filter) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]task.Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if f.Matches(&t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Overdue returns non-completed tasks with a due date before now.
func (s *StateStore) Overdue(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	var out []task.Task
	for _, t := range state.Tasks {
		if t.Overdue(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// DueOn returns tasks whose due date falls on the given calendar day.
func (s *StateStore) DueOn(ctx context.Context, day time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	var out []task.Task
	for _, t := range state.Tasks {
		if t.DueOn(day) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Statistics aggregates counts, computed fresh on every call.
func (s *StateStore) Statistics(ctx context.Context, now time.Time) (task.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return task.Statistics{}, err
	}

	stats := task.Statistics{
		Total:      len(state.Tasks),
		ByStatus:   make(map[task.Status]int),
		ByCategory: make(map[task.Category]int),
		ByPriority: make(map[task.Priority]int),
	}
	for _, t := range state.Tasks {
		stats.ByStatus[t.Status]++
		stats.ByCategory[t.Category]++
		stats.ByPriority[t.Priority]++
		if t.Overdue(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

// CleanupCompleted deletes completed tasks whose completion time precedes
// the cutoff. Returns the number deleted.
func (s *StateStore) CleanupCompleted(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return 0, err
	}

	kept := state.Tasks[:0]
	deleted := 0
	for _, t := range state.Tasks {
		old := t.Status == task.StatusCompleted &&
			t.TimeTracking.CompletedAt != nil &&
			t.TimeTracking.CompletedAt.Before(cutoff)
		if old {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	state.Tasks = kept

	if deleted > 0 {
		if err := s.save(state); err != nil {
			return 0, err
		}
	}
	return deleted, nil
}

// Learning returns the persisted learning-model snapshot.
func (s *StateStore) Learning(ctx context.Context) (learning.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.load()
	if err != nil {
		return learning.Snapshot{}, err
	}
	return state.Learning, nil
}

// SaveLearning persists the learning-model snapshot as part of the whole
// state.
func (s *StateStore) SaveLearning(ctx context.Context, sn learning.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Learning = sn
	return s.save(state)
}

// load reads the state file from disk. Returns an empty state with the id
// counter initialized if the file doesn't exist yet.
func (s *StateStore) load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{NextID: 1}, nil
		}
		return State{}, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return State{NextID: 1}, nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse state file: %w", err)
	}
	if state.NextID < 1 {
		state.NextID = 1
	}
	return state, nil
}

// save writes the whole state atomically: marshal, write to a temp file in
// the same directory, then rename over the target.
func (s *StateStore) save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		if werr != nil {
			return fmt.Errorf("write state file: %w", werr)
		}
		return fmt.Errorf("close state file: %w", cerr)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
