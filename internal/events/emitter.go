package events

import (
	"context"
	"log/slog"
	"sync"
)

type subscription struct {
	handler EventHandler
	types   map[string]struct{}
}

func (s subscription) wants(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventEmitter dispatches catalog events synchronously to the
// handlers registered in memory.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "catalog_event_emitter")),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// event when no types are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	n := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("registered event handler", "subscriptions", n, "types", types)
}

// EmitEvent delivers event to every interested handler in registration
// order. A failing handler does not stop delivery; the first error is
// returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *CatalogEvent) error {
	e.mu.RLock()
	subs := append([]subscription(nil), e.subs...)
	e.mu.RUnlock()

	var (
		delivered int
		firstErr  error
	)
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("catalog event handler failed",
				"error", err,
				"subscription", i,
				"event_id", event.ID,
				"event_type", event.Type,
				"revision", event.Revision)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	e.logger.Debug("catalog event emitted",
		"event_type", event.Type,
		"revision", event.Revision,
		"delivered", delivered)

	return firstErr
}
