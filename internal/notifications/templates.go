package notifications

import (
	"fmt"
	"strings"

	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	"github.com/ziksirlabs/ziksir-backend/internal/bookings"
	"github.com/ziksirlabs/ziksir-backend/internal/consulting"
	"github.com/ziksirlabs/ziksir-backend/internal/messages"
	"github.com/ziksirlabs/ziksir-backend/internal/prototyping"
	"github.com/ziksirlabs/ziksir-backend/internal/requests"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/mailer"
)

const slotDateLayout = "Monday, 2 January 2006"

func welcomeEmail(d auth.RegisteredUserData) *mailer.Message {
	if d.Email == "" {
		return nil
	}
	body := fmt.Sprintf(`Hi %s,

Your Ziksir account is ready. You can now browse the equipment catalog
and request bookings.

The Ziksir team`, displayName(d.Name))
	return &mailer.Message{
		To:      []string{d.Email},
		Subject: "Welcome to Ziksir",
		Body:    body,
	}
}

func passwordResetEmail(d auth.PasswordResetData) *mailer.Message {
	if d.Email == "" {
		return nil
	}
	body := fmt.Sprintf(`Hi %s,

A password reset was requested for your account. Use the link below and
enter the verification code when prompted:

%s

Verification code: %s

If you did not request this, you can ignore this email.

The Ziksir team`, displayName(d.Name), d.ResetLink, d.OTP)
	return &mailer.Message{
		To:      []string{d.Email},
		Subject: "Reset your Ziksir password",
		Body:    body,
	}
}

var bookingSubjects = map[enums.EventType]string{
	enums.EventTypeBookingCreated:   "Booking received",
	enums.EventTypeBookingApproved:  "Booking approved",
	enums.EventTypeBookingRejected:  "Booking rejected",
	enums.EventTypeBookingCancelled: "Booking cancelled",
	enums.EventTypeBookingCompleted: "Booking completed",
}

var bookingLines = map[enums.EventType]string{
	enums.EventTypeBookingCreated:   "We received your booking request. You will hear from us once it has been reviewed.",
	enums.EventTypeBookingApproved:  "Your booking has been approved. A unit is reserved for your slot.",
	enums.EventTypeBookingRejected:  "Your booking request was rejected. Contact us if you would like more detail.",
	enums.EventTypeBookingCancelled: "Your booking has been cancelled.",
	enums.EventTypeBookingCompleted: "Your booking is complete. Thanks for working with us.",
}

func bookingEmail(eventType enums.EventType, d bookings.BookingEventData) *mailer.Message {
	if d.UserEmail == "" {
		return nil
	}
	body := fmt.Sprintf(`Hi %s,

%s

Equipment: %s
Slot date: %s

The Ziksir team`, displayName(d.UserName), bookingLines[eventType], d.EquipmentName, d.SlotDate.Format(slotDateLayout))
	return &mailer.Message{
		To:      []string{d.UserEmail},
		Subject: bookingSubjects[eventType],
		Body:    body,
	}
}

func equipmentRequestEmail(adminInbox string, d requests.RequestEventData) *mailer.Message {
	if adminInbox == "" {
		return nil
	}
	body := fmt.Sprintf(`New equipment request from %s <%s>.

Equipment: %s

%s`, d.RequesterName, d.Email, d.EquipmentName, d.Description)
	return &mailer.Message{
		To:      []string{adminInbox},
		Subject: fmt.Sprintf("Equipment request: %s", d.EquipmentName),
		Body:    body,
	}
}

func consultingRequestEmail(adminInbox string, d consulting.ConsultingEventData) *mailer.Message {
	if adminInbox == "" {
		return nil
	}
	budget := "not provided"
	if d.Budget != nil {
		budget = d.Budget.StringFixed(2)
	}
	body := fmt.Sprintf(`New consulting inquiry from %s <%s>.

Subject: %s
Budget: %s

%s`, d.RequesterName, d.Email, d.Subject, budget, d.Details)
	return &mailer.Message{
		To:      []string{adminInbox},
		Subject: fmt.Sprintf("Consulting inquiry: %s", d.Subject),
		Body:    body,
	}
}

func prototypingRequestEmail(adminInbox string, d prototyping.PrototypingEventData) *mailer.Message {
	if adminInbox == "" {
		return nil
	}
	body := fmt.Sprintf(`New prototyping request from %s <%s>.

Project: %s

%s`, d.RequesterName, d.Email, d.ProjectTitle, d.Details)
	return &mailer.Message{
		To:      []string{adminInbox},
		Subject: fmt.Sprintf("Prototyping request: %s", d.ProjectTitle),
		Body:    body,
	}
}

func contactMessageEmail(adminInbox string, d messages.MessageEventData) *mailer.Message {
	if adminInbox == "" {
		return nil
	}
	body := fmt.Sprintf(`New contact message from %s <%s>.

%s`, d.Name, d.Email, d.Body)
	return &mailer.Message{
		To:      []string{adminInbox},
		Subject: fmt.Sprintf("Contact: %s", d.Subject),
		Body:    body,
	}
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	return name
}
