package notifications

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
)

// Consumer pulls outbox events off the notification subscription and hands
// them to the email handler.
type Consumer struct {
	handler      eventHandler
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

type eventHandler interface {
	Handle(ctx context.Context, eventType enums.EventType, payload []byte) error
}

// NewConsumer wires the dependencies for the notification worker loop.
func NewConsumer(handler eventHandler, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("event handler is required")
	}
	if subscription == nil {
		return nil, errors.New("notification subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		handler:      handler,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes notification events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process reports whether the message should be acked. Unknown event types
// and undecodable payloads are acked; redelivering them changes nothing.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	eventType := enums.EventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_id":   msg.Attributes["event_id"],
		"event_type": eventType.String(),
	})

	err := c.handler.Handle(ctx, eventType, msg.Data)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrUnknownEventType):
		c.logg.Warn(logCtx, "no template for event type")
		return true
	case errors.Is(err, ErrInvalidPayload):
		c.logg.Error(logCtx, "undeliverable notification payload", err)
		return true
	default:
		c.logg.Error(logCtx, "failed to send notification", err)
		return false
	}
}
