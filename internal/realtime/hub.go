package realtime

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when using a broker after Close
var ErrClosed = errors.New("broker closed")

// Hub is an in-process Broker. It serves a single server instance; use
// RedisBroker when several instances share a store.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	closed bool
}

var _ Broker = (*Hub)(nil)

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Publish delivers ev to every subscriber of ev.Topic without blocking
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	for sub := range h.subs[ev.Topic] {
		sub.offer(ev)
	}
	return nil
}

// Subscribe registers a subscription on topics
func (h *Hub) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	sub := newSubscription()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	for _, topic := range topics {
		if h.subs[topic] == nil {
			h.subs[topic] = make(map[*Subscription]struct{})
		}
		h.subs[topic][sub] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(sub, topics)
	}()
	return sub, nil
}

func (h *Hub) remove(sub *Subscription, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, topic := range topics {
		delete(h.subs[topic], sub)
		if len(h.subs[topic]) == 0 {
			delete(h.subs, topic)
		}
	}
	close(sub.events)
}

// Close ends every subscription
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	seen := make(map[*Subscription]struct{})
	for _, subs := range h.subs {
		for sub := range subs {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			close(sub.events)
		}
	}
	h.subs = nil
	return nil
}
