package valueobjects

import "fmt"

// RequestStatus is the lifecycle state of a visitor request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusApproved   RequestStatus = "approved"
	StatusDeclined   RequestStatus = "declined"
	StatusCheckedIn  RequestStatus = "checked_in"
	StatusCheckedOut RequestStatus = "checked_out"
	StatusExpired    RequestStatus = "expired"
)

var validRequestStatuses = map[RequestStatus]bool{
	StatusPending:    true,
	StatusApproved:   true,
	StatusDeclined:   true,
	StatusCheckedIn:  true,
	StatusCheckedOut: true,
	StatusExpired:    true,
}

// Transitions only ever move forward. Statuses missing from the map are terminal.
var requestStatusTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {
		StatusApproved,
		StatusDeclined,
		StatusExpired,
	},
	StatusApproved: {
		StatusCheckedIn,
	},
	StatusCheckedIn: {
		StatusCheckedOut,
	},
}

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	return validRequestStatuses[s]
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && len(requestStatusTransitions[s]) == 0
}

func (s RequestStatus) IsPending() bool {
	return s == StatusPending
}

func (s RequestStatus) IsApproved() bool {
	return s == StatusApproved
}

func (s RequestStatus) IsCheckedIn() bool {
	return s == StatusCheckedIn
}

func NewRequestStatus(s string) (RequestStatus, error) {
	rs := RequestStatus(s)
	if !rs.IsValid() {
		return "", fmt.Errorf("invalid request status: %s", s)
	}
	return rs, nil
}
