package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	"github.com/ziksirlabs/ziksir-backend/internal/bookings"
	"github.com/ziksirlabs/ziksir-backend/internal/messages"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/mailer"
	"github.com/ziksirlabs/ziksir-backend/pkg/outbox"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func envelopePayload(t *testing.T, data any) []byte {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	payload, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	})
	require.NoError(t, err)
	return payload
}

func TestHandleWelcomeEmailGoesToUser(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, auth.RegisteredUserData{
		UserID: uuid.NewString(),
		Email:  "new.user@lab.edu",
		Name:   "New User",
	})
	require.NoError(t, handler.Handle(context.Background(), enums.EventTypeUserRegistered, payload))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"new.user@lab.edu"}, msg.To)
	assert.Equal(t, "Welcome to Ziksir", msg.Subject)
	assert.Contains(t, msg.Body, "New User")
}

func TestHandlePasswordResetIncludesLinkAndCode(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, auth.PasswordResetData{
		Email:     "forgetful@lab.edu",
		Name:      "Forgetful",
		ResetLink: "https://app.ziksir.com/reset-password?token=abc",
		OTP:       "204881",
	})
	require.NoError(t, handler.Handle(context.Background(), enums.EventTypePasswordResetRequested, payload))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "https://app.ziksir.com/reset-password?token=abc")
	assert.Contains(t, sender.sent[0].Body, "204881")
}

func TestHandleBookingDecisionEmails(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)

	data := bookings.BookingEventData{
		BookingID:     uuid.New(),
		UserID:        uuid.New(),
		UserEmail:     "researcher@lab.edu",
		UserName:      "Researcher",
		EquipmentName: "Confocal Microscope",
		SlotDate:      time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Status:        enums.BookingStatusApproved,
	}
	payload := envelopePayload(t, data)

	require.NoError(t, handler.Handle(context.Background(), enums.EventTypeBookingApproved, payload))
	require.NoError(t, handler.Handle(context.Background(), enums.EventTypeBookingRejected, payload))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "Booking approved", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Body, "Confocal Microscope")
	assert.Contains(t, sender.sent[0].Body, "14 September 2026")
	assert.Equal(t, "Booking rejected", sender.sent[1].Subject)
}

func TestHandleIntakeGoesToAdminInbox(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, messages.MessageEventData{
		MessageID: uuid.New(),
		Name:      "Visitor",
		Email:     "visitor@corp.com",
		Subject:   "Pricing question",
		Body:      "How much is a day on the SEM?",
	})
	require.NoError(t, handler.Handle(context.Background(), enums.EventTypeContactMessageReceived, payload))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"admin@ziksir.com"}, sender.sent[0].To)
	assert.Equal(t, "Contact: Pricing question", sender.sent[0].Subject)
}

func TestHandleWithoutAdminInboxDropsIntake(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, messages.MessageEventData{Name: "Visitor", Email: "v@c.com"})
	require.NoError(t, handler.Handle(context.Background(), enums.EventTypeContactMessageReceived, payload))
	assert.Empty(t, sender.sent)
}

func TestHandleUnknownEventType(t *testing.T) {
	sender := &fakeSender{}
	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, map[string]string{"x": "y"})
	err = handler.Handle(context.Background(), enums.EventType("billing.invoice_paid"), payload)
	assert.True(t, errors.Is(err, ErrUnknownEventType))
}

func TestHandleSenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	handler, err := NewHandler(sender, "admin@ziksir.com", nil, nil)
	require.NoError(t, err)

	payload := envelopePayload(t, auth.RegisteredUserData{Email: "u@lab.edu", Name: "U"})
	err = handler.Handle(context.Background(), enums.EventTypeUserRegistered, payload)
	assert.ErrorContains(t, err, "smtp down")
}
