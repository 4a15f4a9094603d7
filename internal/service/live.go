package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/realtime"
)

// publish notifies subscribers of a write. A failed publish is logged and
// never fails the write itself.
func publish(ctx context.Context, broker realtime.Broker, log *zap.Logger, ev realtime.Event) {
	if err := broker.Publish(ctx, ev); err != nil {
		log.Warn("failed to publish change event",
			zap.String("topic", ev.Topic),
			zap.String("id", ev.ID),
			zap.Error(err))
	}
}

// watch emits load's result now and again after every event on topics,
// until ctx is cancelled. The first load runs before watch returns, so its
// error is reported to the caller; later load errors are logged and that
// emission is skipped.
func watch[T any](ctx context.Context, broker realtime.Broker, log *zap.Logger, topics []string, load func(context.Context) (T, error)) (<-chan T, error) {
	sub, err := broker.Subscribe(ctx, topics...)
	if err != nil {
		return nil, err
	}

	first, err := load(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan T, 1)
	out <- first

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				snapshot, err := load(ctx)
				if err != nil {
					if ctx.Err() == nil {
						log.Warn("failed to reload live snapshot", zap.Strings("topics", topics), zap.Error(err))
					}
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
