package visitor

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
)

// VisitorRequest is the aggregate root of the visit workflow. Status only moves
// forward along the transitions in valueobjects.
type VisitorRequest struct {
	id             string
	visitorName    string
	visitorID      string
	visitorPhone   string
	visitorEmail   string
	purpose        string
	itemsBrought   []string
	department     string
	requestedBy    string
	visitDuration  vo.VisitDuration
	scheduledDate  time.Time
	scheduledTime  string
	priority       vo.Priority
	status         vo.RequestStatus
	reviewedBy     *string
	reviewedAt     *time.Time
	reviewComments string
	approvalCode   string
	checkedInAt    *time.Time
	checkedOutAt   *time.Time
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewVisitorRequest creates a pending request from an already validated candidate.
func NewVisitorRequest(id string, c Candidate, now time.Time) (*VisitorRequest, error) {
	if id == "" {
		return nil, fmt.Errorf("visitor request ID is required")
	}
	if c.RequestedBy == "" {
		return nil, fmt.Errorf("requester is required")
	}

	priority := c.Priority
	if priority == "" {
		priority = vo.PriorityMedium
	}

	return &VisitorRequest{
		id:            id,
		visitorName:   c.VisitorName,
		visitorID:     c.VisitorID,
		visitorPhone:  c.VisitorPhone,
		visitorEmail:  c.VisitorEmail,
		purpose:       c.Purpose,
		itemsBrought:  append([]string{}, c.ItemsBrought...),
		department:    c.Department,
		requestedBy:   c.RequestedBy,
		visitDuration: c.VisitDuration,
		scheduledDate: c.ScheduledDate,
		scheduledTime: c.ScheduledTime,
		priority:      priority,
		status:        vo.StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID             string
	VisitorName    string
	VisitorID      string
	VisitorPhone   string
	VisitorEmail   string
	Purpose        string
	ItemsBrought   []string
	Department     string
	RequestedBy    string
	VisitDuration  vo.VisitDuration
	ScheduledDate  time.Time
	ScheduledTime  string
	Priority       vo.Priority
	Status         vo.RequestStatus
	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReviewComments string
	ApprovalCode   string
	CheckedInAt    *time.Time
	CheckedOutAt   *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructVisitorRequest(p ReconstructParams) (*VisitorRequest, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("visitor request ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}
	items := p.ItemsBrought
	if items == nil {
		items = []string{}
	}

	return &VisitorRequest{
		id:             p.ID,
		visitorName:    p.VisitorName,
		visitorID:      p.VisitorID,
		visitorPhone:   p.VisitorPhone,
		visitorEmail:   p.VisitorEmail,
		purpose:        p.Purpose,
		itemsBrought:   items,
		department:     p.Department,
		requestedBy:    p.RequestedBy,
		visitDuration:  p.VisitDuration,
		scheduledDate:  p.ScheduledDate,
		scheduledTime:  p.ScheduledTime,
		priority:       p.Priority,
		status:         p.Status,
		reviewedBy:     p.ReviewedBy,
		reviewedAt:     p.ReviewedAt,
		reviewComments: p.ReviewComments,
		approvalCode:   p.ApprovalCode,
		checkedInAt:    p.CheckedInAt,
		checkedOutAt:   p.CheckedOutAt,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (r *VisitorRequest) ID() string                      { return r.id }
func (r *VisitorRequest) VisitorName() string             { return r.visitorName }
func (r *VisitorRequest) VisitorID() string               { return r.visitorID }
func (r *VisitorRequest) VisitorPhone() string            { return r.visitorPhone }
func (r *VisitorRequest) VisitorEmail() string            { return r.visitorEmail }
func (r *VisitorRequest) Purpose() string                 { return r.purpose }
func (r *VisitorRequest) Department() string              { return r.department }
func (r *VisitorRequest) RequestedBy() string             { return r.requestedBy }
func (r *VisitorRequest) VisitDuration() vo.VisitDuration { return r.visitDuration }
func (r *VisitorRequest) ScheduledDate() time.Time        { return r.scheduledDate }
func (r *VisitorRequest) ScheduledTime() string           { return r.scheduledTime }
func (r *VisitorRequest) Priority() vo.Priority           { return r.priority }
func (r *VisitorRequest) Status() vo.RequestStatus        { return r.status }
func (r *VisitorRequest) ReviewedBy() *string             { return r.reviewedBy }
func (r *VisitorRequest) ReviewedAt() *time.Time          { return r.reviewedAt }
func (r *VisitorRequest) ReviewComments() string          { return r.reviewComments }
func (r *VisitorRequest) ApprovalCode() string            { return r.approvalCode }
func (r *VisitorRequest) CheckedInAt() *time.Time         { return r.checkedInAt }
func (r *VisitorRequest) CheckedOutAt() *time.Time        { return r.checkedOutAt }
func (r *VisitorRequest) Version() int                    { return r.version }
func (r *VisitorRequest) CreatedAt() time.Time            { return r.createdAt }
func (r *VisitorRequest) UpdatedAt() time.Time            { return r.updatedAt }

func (r *VisitorRequest) ItemsBrought() []string {
	itemsCopy := make([]string, len(r.itemsBrought))
	copy(itemsCopy, r.itemsBrought)
	return itemsCopy
}

// HasApprovalCode reports whether the request ever reached approved.
func (r *VisitorRequest) HasApprovalCode() bool {
	return r.approvalCode != ""
}

// Clone returns an independent copy, used to retry a transition from the state
// that was read.
func (r *VisitorRequest) Clone() *VisitorRequest {
	c := *r
	c.itemsBrought = r.ItemsBrought()
	c.reviewedBy = clonePtr(r.reviewedBy)
	c.reviewedAt = clonePtr(r.reviewedAt)
	c.checkedInAt = clonePtr(r.checkedInAt)
	c.checkedOutAt = clonePtr(r.checkedOutAt)
	return &c
}

// IsPastDue reports whether a pending request's scheduled day has ended as of at.
func (r *VisitorRequest) IsPastDue(at time.Time) bool {
	return r.status.IsPending() && IsBeforeToday(r.scheduledDate, at)
}

// Expire moves a past-due pending request to expired.
func (r *VisitorRequest) Expire(at time.Time) error {
	if !r.IsPastDue(at) {
		return fmt.Errorf("%w: request %s is not past due", ErrInvalidTransition, r.id)
	}
	return r.transition(vo.StatusExpired, at)
}

// Review records the reviewer outcome. code is attached only on approval and
// only when the request has never carried an approval code.
func (r *VisitorRequest) Review(reviewerID string, decision vo.Decision, comments, code string, at time.Time) error {
	if reviewerID == "" {
		return fmt.Errorf("reviewer is required")
	}
	if !decision.IsValid() {
		return fmt.Errorf("invalid decision: %s", decision)
	}
	if decision == vo.DecisionApproved && code == "" && !r.HasApprovalCode() {
		return fmt.Errorf("approval code is required to approve")
	}
	if err := r.transition(decision.Status(), at); err != nil {
		return err
	}

	reviewedAt := at
	r.reviewedBy = &reviewerID
	r.reviewedAt = &reviewedAt
	r.reviewComments = comments
	if decision == vo.DecisionApproved && !r.HasApprovalCode() {
		r.approvalCode = code
	}
	return nil
}

func (r *VisitorRequest) CheckIn(at time.Time) error {
	if err := r.transition(vo.StatusCheckedIn, at); err != nil {
		return err
	}
	t := at
	r.checkedInAt = &t
	return nil
}

func (r *VisitorRequest) CheckOut(at time.Time) error {
	if err := r.transition(vo.StatusCheckedOut, at); err != nil {
		return err
	}
	t := at
	r.checkedOutAt = &t
	return nil
}

func (r *VisitorRequest) transition(next vo.RequestStatus, at time.Time) error {
	if r.status.IsTerminal() {
		return fmt.Errorf("%w: request is %s and can no longer change", ErrInvalidTransition, r.status)
	}
	if !r.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, r.status, next)
	}
	r.status = next
	r.updatedAt = at
	r.version++
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
