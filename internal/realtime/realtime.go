// Package realtime fans out change notifications to live subscribers.
//
// Events only say that something changed. Subscribers re-read the current
// state from the store and push it to their client, so a dropped or merged
// notification never leaves a client with stale data as long as one
// notification arrives after the last write.
package realtime

import (
	"context"
)

// TopicRecipes receives an event on every recipe create, edit or delete.
const TopicRecipes = "recipes"

// Event operations
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// UserTopic is the topic for writes to users/{uid}: profile saves and
// favorite changes.
func UserTopic(uid string) string {
	return "users/" + uid
}

// Event is a change notification
type Event struct {
	Topic string `json:"topic"`
	ID    string `json:"id,omitempty"`
	Op    string `json:"op"`
}

// Broker publishes events and hands out subscriptions
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe listens on topics until ctx is cancelled, at which point the
	// subscription's channel is closed.
	Subscribe(ctx context.Context, topics ...string) (*Subscription, error)
	Close() error
}

// Subscription delivers events for a set of topics. At most one event is
// buffered; further events arriving before it is read are merged into it.
type Subscription struct {
	events chan Event
}

func newSubscription() *Subscription {
	return &Subscription{events: make(chan Event, 1)}
}

// Events returns the delivery channel. It is closed when the subscription
// ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) offer(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
