package enums

import "fmt"

// RequestStatus is the triage state shared by equipment, consulting and
// prototyping intake requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusClosed   RequestStatus = "closed"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusApproved,
	RequestStatusRejected,
	RequestStatusClosed,
}

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	for _, valid := range validRequestStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

func ParseRequestStatus(value string) (RequestStatus, error) {
	status := RequestStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid request status: %q", value)
	}
	return status, nil
}
