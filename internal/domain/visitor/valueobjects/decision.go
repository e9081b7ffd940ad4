package valueobjects

import "fmt"

// Decision is a reviewer's outcome for a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
)

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionDeclined
}

// Status maps the decision to the status it produces.
func (d Decision) Status() RequestStatus {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusDeclined
}

func NewDecision(s string) (Decision, error) {
	d := Decision(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid decision: %s", s)
	}
	return d, nil
}
