package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "recipebook:"

// RedisBroker carries events over Redis pub/sub so that every server
// instance sees writes made through the others.
type RedisBroker struct {
	client *redis.Client
	log    *zap.Logger
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker creates a broker on an existing client. The client is
// owned by the caller.
func NewRedisBroker(client *redis.Client, log *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, log: log}
}

// Publish sends ev on the topic's channel
func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, channelPrefix+ev.Topic, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic, err)
	}
	return nil
}

// Subscribe subscribes to topics and returns once Redis has confirmed the
// subscription, so no event published afterwards is missed.
func (b *RedisBroker) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	channels := make([]string, len(topics))
	for i, topic := range topics {
		channels[i] = channelPrefix + topic
	}

	ps := b.client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := newSubscription()
	go func() {
		defer close(sub.events)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("dropping malformed event",
						zap.String("channel", msg.Channel),
						zap.Error(err))
					continue
				}
				sub.offer(ev)
			}
		}
	}()
	return sub, nil
}

// Close is a no-op; the Redis client is closed by its owner.
func (b *RedisBroker) Close() error {
	return nil
}
