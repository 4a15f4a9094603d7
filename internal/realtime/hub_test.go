package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDeliversToTopicSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recipes, err := hub.Subscribe(ctx, TopicRecipes)
	require.NoError(t, err)
	user, err := hub.Subscribe(ctx, UserTopic("u1"))
	require.NoError(t, err)

	require.NoError(t, hub.Publish(ctx, Event{Topic: TopicRecipes, ID: "r1", Op: OpCreated}))

	ev := receive(t, recipes)
	assert.Equal(t, "r1", ev.ID)
	assert.Equal(t, OpCreated, ev.Op)
	assertNoEvent(t, user)
}

func TestHubSubscriptionOnSeveralTopics(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, TopicRecipes, UserTopic("u1"))
	require.NoError(t, err)

	require.NoError(t, hub.Publish(ctx, Event{Topic: UserTopic("u1"), Op: OpUpdated}))
	assert.Equal(t, UserTopic("u1"), receive(t, sub).Topic)

	require.NoError(t, hub.Publish(ctx, Event{Topic: TopicRecipes, Op: OpDeleted}))
	assert.Equal(t, TopicRecipes, receive(t, sub).Topic)
}

func TestHubCoalescesPendingEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, TopicRecipes)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, hub.Publish(ctx, Event{Topic: TopicRecipes, Op: OpUpdated}))
	}

	receive(t, sub)
	assertNoEvent(t, sub)
}

func TestHubClosesSubscriptionOnCancel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := hub.Subscribe(ctx, TopicRecipes)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}

	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, TopicRecipes, UserTopic("u1"))
	require.NoError(t, err)
	require.NoError(t, hub.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	assert.ErrorIs(t, hub.Publish(ctx, Event{Topic: TopicRecipes}), ErrClosed)
	_, err = hub.Subscribe(ctx, TopicRecipes)
	assert.ErrorIs(t, err, ErrClosed)
}
