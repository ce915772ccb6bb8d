package app

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

// EventDispatcher moves platform events off the gateway loop onto a single
// pooled worker. One worker keeps per-channel event order, which the audit
// log depends on for edit and delete entries.
type EventDispatcher struct {
	pool   *ants.Pool
	logger *logging.Logger
}

func NewEventDispatcher(logger *logging.Logger) (*EventDispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	return &EventDispatcher{pool: pool, logger: logger}, nil
}

// MessageSink consumes message lifecycle events.
type MessageSink interface {
	HandleMessage(ctx context.Context, ev chat.MessageEvent) error
}

// ChannelDeletedSink consumes channel deletion events.
type ChannelDeletedSink interface {
	OnChannelDeleted(ctx context.Context, ev chat.ChannelDeletedEvent) error
}

// Bind subscribes the sinks to the event source. Handler failures are logged
// and dropped so one bad event never stalls the worker.
func (d *EventDispatcher) Bind(source chat.EventSource, messages MessageSink, deletions ChannelDeletedSink) {
	source.SubscribeMessages(func(ctx context.Context, ev chat.MessageEvent) {
		// The gateway context dies when the callback returns, so the
		// pooled task detaches from its cancellation.
		ctx = context.WithoutCancel(ctx)
		if err := d.pool.Submit(func() {
			if err := messages.HandleMessage(ctx, ev); err != nil {
				d.logger.ErrorContext(ctx, "message event handling failed",
					"channel_id", ev.Message.ChannelID,
					"kind", string(ev.Kind),
					"error", err,
				)
			}
		}); err != nil {
			d.logger.ErrorContext(ctx, "submit message event", "error", err)
		}
	})

	source.SubscribeChannelDeleted(func(ctx context.Context, ev chat.ChannelDeletedEvent) {
		ctx = context.WithoutCancel(ctx)
		if err := d.pool.Submit(func() {
			if err := deletions.OnChannelDeleted(ctx, ev); err != nil {
				d.logger.ErrorContext(ctx, "channel repair failed",
					"channel_id", ev.Channel.ID,
					"error", err,
				)
			}
		}); err != nil {
			d.logger.ErrorContext(ctx, "submit channel deletion event", "error", err)
		}
	})
}

// Release drains and stops the worker.
func (d *EventDispatcher) Release() {
	d.pool.Release()
}
