package visitor

import "context"

// Capability names an action an actor's role may permit.
type Capability string

const (
	CapabilitySubmit  Capability = "visitor_request:submit"
	CapabilityReview  Capability = "visitor_request:review"
	CapabilityGate    Capability = "visitor_request:gate"
	CapabilityReadAll Capability = "visitor_request:read_all"
)

// Actor is the caller identity resolved by the authentication layer.
type Actor struct {
	UserID string
	Role   string
}

// CapabilityChecker answers whether an actor's role grants a capability.
type CapabilityChecker interface {
	Can(ctx context.Context, actor Actor, capability Capability) (bool, error)
}

// AccountDirectory resolves requester references against the user store.
type AccountDirectory interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}
