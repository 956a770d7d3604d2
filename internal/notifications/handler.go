package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	"github.com/ziksirlabs/ziksir-backend/internal/bookings"
	"github.com/ziksirlabs/ziksir-backend/internal/consulting"
	"github.com/ziksirlabs/ziksir-backend/internal/messages"
	"github.com/ziksirlabs/ziksir-backend/internal/prototyping"
	"github.com/ziksirlabs/ziksir-backend/internal/requests"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
	"github.com/ziksirlabs/ziksir-backend/pkg/mailer"
	"github.com/ziksirlabs/ziksir-backend/pkg/metrics"
	"github.com/ziksirlabs/ziksir-backend/pkg/outbox"
)

// ErrUnknownEventType marks events this handler has no template for. Callers
// should ack the message anyway so it does not redeliver forever.
var ErrUnknownEventType = fmt.Errorf("unknown event type")

// ErrInvalidPayload marks events whose payload cannot be decoded. Redelivery
// will not fix these, so callers should ack and rely on the publisher DLQ.
var ErrInvalidPayload = fmt.Errorf("invalid payload")

// Handler turns outbox events into notification emails.
type Handler struct {
	sender     mailer.Sender
	adminInbox string
	logg       *logger.Logger
	metrics    *metrics.OutboxMetrics
}

// NewHandler wires the email dispatch handler. adminInbox receives intake
// notifications; when empty those events are logged and dropped.
func NewHandler(sender mailer.Sender, adminInbox string, logg *logger.Logger, outboxMetrics *metrics.OutboxMetrics) (*Handler, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	return &Handler{
		sender:     sender,
		adminInbox: adminInbox,
		logg:       logg,
		metrics:    outboxMetrics,
	}, nil
}

// Handle decodes the envelope and sends the email for the event type.
func (h *Handler) Handle(ctx context.Context, eventType enums.EventType, payload []byte) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("%w: decoding envelope: %v", ErrInvalidPayload, err)
	}

	msg, err := h.compose(eventType, envelope.Data)
	if err != nil {
		return err
	}
	if msg == nil {
		if h.logg != nil {
			h.logg.Warn(h.logg.WithField(ctx, "event_type", eventType.String()), "no recipient for event, dropping")
		}
		return nil
	}

	if err := h.sender.Send(ctx, *msg); err != nil {
		h.metrics.IncEmail(eventType.String(), "failed")
		return fmt.Errorf("sending %s email: %w", eventType, err)
	}
	h.metrics.IncEmail(eventType.String(), "sent")

	if h.logg != nil {
		fields := map[string]any{
			"event_type": eventType.String(),
			"event_id":   envelope.EventID,
			"subject":    msg.Subject,
		}
		h.logg.Info(h.logg.WithFields(ctx, fields), "notification email sent")
	}
	return nil
}

func (h *Handler) compose(eventType enums.EventType, data json.RawMessage) (*mailer.Message, error) {
	switch eventType {
	case enums.EventTypeUserRegistered:
		var d auth.RegisteredUserData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return welcomeEmail(d), nil

	case enums.EventTypePasswordResetRequested:
		var d auth.PasswordResetData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return passwordResetEmail(d), nil

	case enums.EventTypeBookingCreated,
		enums.EventTypeBookingApproved,
		enums.EventTypeBookingRejected,
		enums.EventTypeBookingCancelled,
		enums.EventTypeBookingCompleted:
		var d bookings.BookingEventData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return bookingEmail(eventType, d), nil

	case enums.EventTypeEquipmentRequestReceived:
		var d requests.RequestEventData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return equipmentRequestEmail(h.adminInbox, d), nil

	case enums.EventTypeConsultingRequestReceived:
		var d consulting.ConsultingEventData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return consultingRequestEmail(h.adminInbox, d), nil

	case enums.EventTypePrototypingRequestReceived:
		var d prototyping.PrototypingEventData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return prototypingRequestEmail(h.adminInbox, d), nil

	case enums.EventTypeContactMessageReceived:
		var d messages.MessageEventData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%w: decoding %s payload: %v", ErrInvalidPayload, eventType, err)
		}
		return contactMessageEmail(h.adminInbox, d), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
}
