package enums

import "fmt"

// BookingStatus tracks a booking through its lifecycle. Only approved
// bookings hold equipment units; terminal statuses release or consume them.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	for _, valid := range validBookingStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// HoldsUnit reports whether a booking in this status holds an equipment unit.
func (s BookingStatus) HoldsUnit() bool {
	return s == BookingStatusApproved
}

func ParseBookingStatus(value string) (BookingStatus, error) {
	status := BookingStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", value)
	}
	return status, nil
}
