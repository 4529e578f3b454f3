package eventbus

import (
	"context"
	"sync"
)

// HandlerFunc processes one event.
type HandlerFunc func(ctx context.Context, event Event) error

// Middleware intercepts events before and after fan-out. Before may return
// nil to abort delivery.
type Middleware interface {
	Before(ctx context.Context, event Event) (Event, error)
	After(ctx context.Context, event Event, err error) error
}

// Logger is the minimal logging interface the bus needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// Bus is an in-memory fan-out event bus.
//
// Thread-safe. Publish delivers to all subscribers of the event's type
// concurrently; subscriber errors are logged and do not stop other
// subscribers.
type Bus struct {
	logger      Logger
	subscribers map[string][]subscriber
	middleware  []Middleware
	nextID      int
	mu          sync.RWMutex
}

type subscriber struct {
	id      int
	handler HandlerFunc
}

// New creates an empty bus. logger may be nil.
func New(logger Logger) *Bus {
	return &Bus{
		logger:      logger,
		subscribers: make(map[string][]subscriber),
	}
}

// Use appends middleware to the chain. Not safe to call after Publish
// traffic has started.
func (b *Bus) Use(m Middleware) {
	b.middleware = append(b.middleware, m)
}

// Subscribe registers a handler for an event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType string, handler HandlerFunc) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish fans an event out to all subscribers of its type. It blocks
// until every subscriber returns; the first subscriber error is returned
// after all have run.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	processed := event
	for _, m := range b.middleware {
		var err error
		processed, err = m.Before(ctx, processed)
		if err != nil {
			return err
		}
		if processed == nil {
			if b.logger != nil {
				b.logger.Debug("event_aborted_by_middleware", "event_type", event.EventType())
			}
			return nil
		}
	}

	b.mu.RLock()
	subs := b.subscribers[processed.EventType()]
	subsCopy := make([]subscriber, len(subs))
	copy(subsCopy, subs)
	b.mu.RUnlock()

	errs := make([]error, len(subsCopy))
	var wg sync.WaitGroup
	for i, sub := range subsCopy {
		wg.Add(1)
		go func(idx int, h HandlerFunc) {
			defer wg.Done()
			if err := h(ctx, processed); err != nil {
				errs[idx] = err
				if b.logger != nil {
					b.logger.Warn("subscriber_failed",
						"event_type", processed.EventType(), "error", err)
				}
			}
		}(i, sub.handler)
	}
	wg.Wait()

	var first error
	for _, err := range errs {
		if err != nil {
			first = err
			break
		}
	}
	for _, m := range b.middleware {
		if err := m.After(ctx, processed, first); err != nil {
			return err
		}
	}
	return first
}

// SubscriberCount returns the number of subscribers for an event type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}
