package enums

import "fmt"

// EventType identifies a notification event emitted through the outbox.
type EventType string

const (
	EventTypeUserRegistered         EventType = "auth.user_registered"
	EventTypePasswordResetRequested EventType = "auth.password_reset_requested"

	EventTypeBookingCreated   EventType = "booking.created"
	EventTypeBookingApproved  EventType = "booking.approved"
	EventTypeBookingRejected  EventType = "booking.rejected"
	EventTypeBookingCancelled EventType = "booking.cancelled"
	EventTypeBookingCompleted EventType = "booking.completed"

	EventTypeEquipmentRequestReceived   EventType = "intake.equipment_request_received"
	EventTypeConsultingRequestReceived  EventType = "intake.consulting_request_received"
	EventTypePrototypingRequestReceived EventType = "intake.prototyping_request_received"
	EventTypeContactMessageReceived     EventType = "intake.contact_message_received"
)

var validEventTypes = []EventType{
	EventTypeUserRegistered,
	EventTypePasswordResetRequested,
	EventTypeBookingCreated,
	EventTypeBookingApproved,
	EventTypeBookingRejected,
	EventTypeBookingCancelled,
	EventTypeBookingCompleted,
	EventTypeEquipmentRequestReceived,
	EventTypeConsultingRequestReceived,
	EventTypePrototypingRequestReceived,
	EventTypeContactMessageReceived,
}

func (t EventType) String() string {
	return string(t)
}

func (t EventType) IsValid() bool {
	for _, valid := range validEventTypes {
		if t == valid {
			return true
		}
	}
	return false
}

func ParseEventType(value string) (EventType, error) {
	eventType := EventType(value)
	if !eventType.IsValid() {
		return "", fmt.Errorf("invalid event type: %q", value)
	}
	return eventType, nil
}

// AggregateType names the entity an outbox event belongs to.
type AggregateType string

const (
	AggregateTypeUser               AggregateType = "user"
	AggregateTypeBooking            AggregateType = "booking"
	AggregateTypeEquipmentRequest   AggregateType = "equipment_request"
	AggregateTypeConsultingRequest  AggregateType = "consulting_request"
	AggregateTypePrototypingRequest AggregateType = "prototyping_request"
	AggregateTypeContactMessage     AggregateType = "contact_message"
)

var validAggregateTypes = []AggregateType{
	AggregateTypeUser,
	AggregateTypeBooking,
	AggregateTypeEquipmentRequest,
	AggregateTypeConsultingRequest,
	AggregateTypePrototypingRequest,
	AggregateTypeContactMessage,
}

func (t AggregateType) String() string {
	return string(t)
}

func (t AggregateType) IsValid() bool {
	for _, valid := range validAggregateTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// DLQReason records why an outbox event was parked in the dead letter table.
type DLQReason string

const (
	DLQReasonMaxAttemptsExceeded DLQReason = "max_attempts_exceeded"
	DLQReasonInvalidPayload      DLQReason = "invalid_payload"
)

func (r DLQReason) String() string {
	return string(r)
}
