package notifications

import (
	"context"
	"io"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
)

func newTestConsumer(t *testing.T, sender *fakeSender) *Consumer {
	t.Helper()

	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)
	logg := logger.New(logger.Options{
		ServiceName: "consumer-test",
		Output:      io.Discard,
	})
	return &Consumer{handler: handler, logg: logg}
}

func notificationMessage(t *testing.T, eventType enums.EventType, payload []byte) *pubsub.Message {
	t.Helper()

	return &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   uuid.NewString(),
			"event_type": eventType.String(),
		},
	}
}

func TestConsumerAcksDeliveredNotification(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender)

	payload := envelopePayload(t, auth.RegisteredUserData{
		UserID: uuid.NewString(),
		Email:  "new.user@lab.edu",
		Name:   "New User",
	})
	msg := notificationMessage(t, enums.EventTypeUserRegistered, payload)

	assert.True(t, consumer.process(context.Background(), msg))
	require.Len(t, sender.sent, 1)
}

func TestConsumerAcksUnknownEventType(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender)

	payload := envelopePayload(t, map[string]string{"userId": uuid.NewString()})
	msg := notificationMessage(t, enums.EventType("equipment.repainted"), payload)

	assert.True(t, consumer.process(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestConsumerAcksUndecodablePayload(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender)

	msg := notificationMessage(t, enums.EventTypeUserRegistered, []byte(`{not json`))

	assert.True(t, consumer.process(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestConsumerNacksSendFailure(t *testing.T) {
	sender := &fakeSender{err: assert.AnError}
	consumer := newTestConsumer(t, sender)

	payload := envelopePayload(t, auth.RegisteredUserData{
		UserID: uuid.NewString(),
		Email:  "new.user@lab.edu",
	})
	msg := notificationMessage(t, enums.EventTypeUserRegistered, payload)

	assert.False(t, consumer.process(context.Background(), msg))
}
