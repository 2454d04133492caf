// Package messaging fans status events out to subscribers of a scope.
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	contractsv1 "contentflow/contracts/gen/events/v1"
)

const defaultBuffer = 64

var ErrMissingScope = errors.New("event has no fan-out scope")

type Envelope = contractsv1.Envelope

type subscriber struct {
	ch chan Envelope
}

// Hub delivers each event to every subscriber of its PartitionKey. Delivery
// never blocks: a subscriber with a full buffer misses the event. Nothing is
// stored, so subscribers only see events published while connected.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	buffer      int
	logger      *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		buffer:      buffer,
		logger:      logger,
	}
}

func (h *Hub) Publish(ctx context.Context, topic string, event Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.PartitionKey == "" {
		return ErrMissingScope
	}
	delivered := h.Deliver(topic, event)
	h.logger.Debug("event published",
		"event", "fanout_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"scope", event.PartitionKey,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"subscribers", delivered,
	)
	return nil
}

// Deliver hands event to local subscribers only and returns how many received it.
func (h *Hub) Deliver(topic string, event Envelope) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subscribers[event.PartitionKey] {
		select {
		case sub.ch <- event:
			delivered++
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"event", "fanout_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"scope", event.PartitionKey,
				"event_id", event.EventID,
			)
		}
	}
	return delivered
}

// Subscribe registers for scope until ctx ends; the returned channel is closed then.
func (h *Hub) Subscribe(ctx context.Context, scope string) <-chan Envelope {
	sub := &subscriber{ch: make(chan Envelope, h.buffer)}

	h.mu.Lock()
	if h.subscribers[scope] == nil {
		h.subscribers[scope] = make(map[*subscriber]struct{})
	}
	h.subscribers[scope][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.removeSubscriber(scope, sub)
	}()
	return sub.ch
}

func (h *Hub) SubscriberCount(scope string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[scope])
}

func (h *Hub) removeSubscriber(scope string, target *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := h.subscribers[scope]
	if _, ok := items[target]; !ok {
		return
	}
	delete(items, target)
	if len(items) == 0 {
		delete(h.subscribers, scope)
	}
	close(target.ch)
}
