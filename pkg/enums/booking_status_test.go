package enums

import "testing"

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    BookingStatus
		wantErr bool
	}{
		{"pending", BookingStatusPending, false},
		{"approved", BookingStatusApproved, false},
		{"rejected", BookingStatusRejected, false},
		{"cancelled", BookingStatusCancelled, false},
		{"completed", BookingStatusCompleted, false},
		{"canceled", "", true},
		{"", "", true},
		{"PENDING", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBookingStatus(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBookingStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBookingStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBookingStatusTransitionsHelpers(t *testing.T) {
	if BookingStatusPending.IsTerminal() || BookingStatusApproved.IsTerminal() {
		t.Error("pending/approved must not be terminal")
	}
	for _, s := range []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}

	if !BookingStatusApproved.HoldsUnit() {
		t.Error("approved must hold a unit")
	}
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted} {
		if s.HoldsUnit() {
			t.Errorf("%s must not hold a unit", s)
		}
	}
}
