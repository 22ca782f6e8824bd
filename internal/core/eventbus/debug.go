package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers hooks that log bus activity. Subscriber
// panics are reported at error level; every other event is traced at debug
// level through a catch-all subscriber per event type.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})

	bus.SubscribeTasksUpdated(func(p TasksUpdatedPayload) {
		logger.Debug().Int("tasks", len(p.Tasks)).Msg("tasks updated")
	})
	bus.SubscribeTaskCreated(func(p TaskCreatedPayload) {
		if p.Task != nil {
			logger.Debug().Int64("id", p.Task.ID).Str("title", p.Task.Title).Msg("task created")
		}
	})
	bus.SubscribeConfirmationPending(func(p ConfirmationPendingPayload) {
		logger.Debug().Str("message_id", p.MessageID).Int("candidates", p.Candidates).Msg("confirmation pending")
	})
	bus.SubscribeConfirmationResolved(func(p ConfirmationResolvedPayload) {
		logger.Debug().Bool("confirmed", p.Confirmed).Int("created", p.Created).Msg("confirmation resolved")
	})
}
