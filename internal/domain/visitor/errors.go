package visitor

import (
	"errors"
	"strings"
)

var (
	ErrRequestNotFound   = errors.New("visitor request not found")
	ErrStatusConflict    = errors.New("visitor request status changed concurrently")
	ErrApprovalCodeTaken = errors.New("approval code already in use")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries every reason a candidate was rejected, in check order.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, ". ")
}
