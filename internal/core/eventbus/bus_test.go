package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwright/internal/core/task"
)

func TestPublishSubscribe(t *testing.T) {
	t.Run("typed payload delivered", func(t *testing.T) {
		bus := New()

		var got []ConfirmationPendingPayload
		bus.SubscribeConfirmationPending(func(p ConfirmationPendingPayload) {
			got = append(got, p)
		})

		bus.PublishConfirmationPending(ConfirmationPendingPayload{MessageID: "msg-1", Candidates: 2})

		require.Len(t, got, 1)
		assert.Equal(t, "msg-1", got[0].MessageID)
		assert.Equal(t, 2, got[0].Candidates)
	})

	t.Run("subscribers run in registration order", func(t *testing.T) {
		bus := New()

		var order []string
		bus.SubscribeTasksUpdated(func(TasksUpdatedPayload) { order = append(order, "first") })
		bus.SubscribeTasksUpdated(func(TasksUpdatedPayload) { order = append(order, "second") })

		bus.PublishTasksUpdated(TasksUpdatedPayload{})

		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("events do not cross", func(t *testing.T) {
		bus := New()

		calls := 0
		bus.SubscribeTaskCreated(func(TaskCreatedPayload) { calls++ })

		bus.PublishTasksUpdated(TasksUpdatedPayload{})
		bus.PublishConfirmationResolved(ConfirmationResolvedPayload{})
		assert.Zero(t, calls)

		bus.PublishTaskCreated(TaskCreatedPayload{Task: &task.Task{ID: 1}})
		assert.Equal(t, 1, calls)
	})

	t.Run("publish without subscribers is a no-op", func(t *testing.T) {
		bus := New()
		bus.PublishTaskCreated(TaskCreatedPayload{})
	})
}

func TestOnPanic(t *testing.T) {
	bus := New()

	var (
		panicked  []Event
		recovered any
	)
	bus.OnPanic(func(event Event, _ any, r any) {
		panicked = append(panicked, event)
		recovered = r
	})

	ran := false
	bus.SubscribeTasksUpdated(func(TasksUpdatedPayload) { panic("boom") })
	bus.SubscribeTasksUpdated(func(TasksUpdatedPayload) { ran = true })

	bus.PublishTasksUpdated(TasksUpdatedPayload{})

	require.Len(t, panicked, 1)
	assert.Equal(t, EventTasksUpdated, panicked[0])
	assert.Equal(t, "boom", recovered)
	assert.True(t, ran, "a panicking subscriber must not block later ones")
}
