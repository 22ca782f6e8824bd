package eventbus

import "sync"

// EventBus dispatches typed events to subscribers. Dispatch is synchronous
// in publish order; the engine is single-threaded and cooperative, so
// subscribers run inline on the publisher's goroutine. A panicking
// subscriber is recovered and reported through the OnPanic hooks.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[Event][]func(any)
	onPanic []func(Event, any, any)
}

// New creates an empty bus.
func New() *EventBus {
	return &EventBus{subs: make(map[Event][]func(any))}
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *EventBus) OnPanic(fn func(event Event, payload any, recovered any)) {
	bus.mu.Lock()
	bus.onPanic = append(bus.onPanic, fn)
	bus.mu.Unlock()
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}

func (bus *EventBus) publish(event Event, payload any) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[event]))
	copy(subs, bus.subs[event])
	hooks := make([]func(Event, any, any), len(bus.onPanic))
	copy(hooks, bus.onPanic)
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					for _, hook := range hooks {
						hook(event, payload, r)
					}
				}
			}()
			fn(payload)
		}()
	}
}

// PublishConfirmationPending publishes a confirmation.pending event.
func (bus *EventBus) PublishConfirmationPending(p ConfirmationPendingPayload) {
	bus.publish(EventConfirmationPending, p)
}

// SubscribeConfirmationPending registers a handler for confirmation.pending.
func (bus *EventBus) SubscribeConfirmationPending(fn func(ConfirmationPendingPayload)) {
	bus.subscribe(EventConfirmationPending, func(p any) { fn(p.(ConfirmationPendingPayload)) })
}

// PublishConfirmationResolved publishes a confirmation.resolved event.
func (bus *EventBus) PublishConfirmationResolved(p ConfirmationResolvedPayload) {
	bus.publish(EventConfirmationResolved, p)
}

// SubscribeConfirmationResolved registers a handler for confirmation.resolved.
func (bus *EventBus) SubscribeConfirmationResolved(fn func(ConfirmationResolvedPayload)) {
	bus.subscribe(EventConfirmationResolved, func(p any) { fn(p.(ConfirmationResolvedPayload)) })
}

// PublishTaskCreated publishes a task.created event.
func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) {
	bus.publish(EventTaskCreated, p)
}

// SubscribeTaskCreated registers a handler for task.created.
func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	bus.subscribe(EventTaskCreated, func(p any) { fn(p.(TaskCreatedPayload)) })
}

// PublishTasksUpdated publishes a tasks.updated event.
func (bus *EventBus) PublishTasksUpdated(p TasksUpdatedPayload) {
	bus.publish(EventTasksUpdated, p)
}

// SubscribeTasksUpdated registers a handler for tasks.updated.
func (bus *EventBus) SubscribeTasksUpdated(fn func(TasksUpdatedPayload)) {
	bus.subscribe(EventTasksUpdated, func(p any) { fn(p.(TasksUpdatedPayload)) })
}
