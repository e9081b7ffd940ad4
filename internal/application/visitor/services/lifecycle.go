// Package services holds the visitor request lifecycle engine shared by every
// use case: loading with the expiry derivation applied, and conditional writes
// keyed on the status that was read.
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type Lifecycle struct {
	repo         visitor.Repository
	capabilities visitor.CapabilityChecker
	clock        biztime.Clock
	logger       logger.Interface
}

func NewLifecycle(
	repo visitor.Repository,
	capabilities visitor.CapabilityChecker,
	clock biztime.Clock,
	logger logger.Interface,
) *Lifecycle {
	if clock == nil {
		clock = biztime.NowUTC
	}
	return &Lifecycle{
		repo:         repo,
		capabilities: capabilities,
		clock:        clock,
		logger:       logger,
	}
}

func (l *Lifecycle) Now() time.Time {
	return l.clock()
}

// Can reports whether actor holds capability.
func (l *Lifecycle) Can(ctx context.Context, actor visitor.Actor, capability visitor.Capability) (bool, error) {
	if actor.UserID == "" {
		return false, nil
	}
	ok, err := l.capabilities.Can(ctx, actor, capability)
	if err != nil {
		l.logger.Errorw("capability check failed", "user_id", actor.UserID, "capability", capability, "error", err)
		return false, errors.NewInternalError("failed to check permissions")
	}
	return ok, nil
}

// Authorize returns a forbidden error unless actor holds capability.
func (l *Lifecycle) Authorize(ctx context.Context, actor visitor.Actor, capability visitor.Capability) error {
	ok, err := l.Can(ctx, actor, capability)
	if err != nil {
		return err
	}
	if !ok {
		l.logger.Warnw("capability denied", "user_id", actor.UserID, "role", actor.Role, "capability", capability)
		return errors.NewForbiddenError("you do not have permission to perform this action")
	}
	return nil
}

// Load reads a request by ID and applies the expiry derivation before returning it.
func (l *Lifecycle) Load(ctx context.Context, requestID string) (*visitor.VisitorRequest, error) {
	r, err := l.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, l.translateReadError(requestID, err)
	}
	return l.Refresh(ctx, r)
}

// Refresh applies the expiry derivation to a request that has already been read.
// A pending request whose scheduled day has ended is persisted as expired and
// returned in that state. If a concurrent writer moved the request first, the
// stored state is re-read and returned instead.
func (l *Lifecycle) Refresh(ctx context.Context, r *visitor.VisitorRequest) (*visitor.VisitorRequest, error) {
	expired, err := l.Expire(ctx, r)
	if err == nil {
		return expired, nil
	}
	if !stderrors.Is(err, visitor.ErrStatusConflict) {
		return nil, err
	}

	current, err := l.repo.GetByID(ctx, r.ID())
	if err != nil {
		return nil, l.translateReadError(r.ID(), err)
	}
	return current, nil
}

// Expire persists the expired status for a past-due pending request. Requests
// that are not past due are returned unchanged. It returns visitor.ErrStatusConflict
// when the stored status is no longer pending.
func (l *Lifecycle) Expire(ctx context.Context, r *visitor.VisitorRequest) (*visitor.VisitorRequest, error) {
	now := l.clock()
	if !r.IsPastDue(now) {
		return r, nil
	}

	next := r.Clone()
	if err := next.Expire(now); err != nil {
		return nil, errors.NewInternalError("failed to expire visitor request", err.Error())
	}

	if err := l.repo.UpdateIfStatus(ctx, next, vo.StatusPending); err != nil {
		if stderrors.Is(err, visitor.ErrStatusConflict) {
			l.logger.Debugw("expiry lost to concurrent update", "request_id", r.ID())
			return nil, err
		}
		l.logger.Errorw("failed to persist expiry", "request_id", r.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update visitor request")
	}

	l.logger.Infow("visitor request expired",
		"request_id", r.ID(),
		"scheduled_date", biztime.FormatDate(r.ScheduledDate()),
	)
	return next, nil
}

// Commit applies mutate to a copy of read and writes it only if the stored
// status still equals read's status. read must come from Load or Refresh.
//
// Errors are AppErrors except visitor.ErrApprovalCodeTaken, which is returned
// as-is so the caller can retry with a fresh code. Nothing is written on error.
func (l *Lifecycle) Commit(
	ctx context.Context,
	read *visitor.VisitorRequest,
	mutate func(next *visitor.VisitorRequest, now time.Time) error,
) (*visitor.VisitorRequest, error) {
	now := l.clock()

	// Crossed the day boundary since the read: the request must be observed as expired.
	if read.IsPastDue(now) {
		if _, err := l.Refresh(ctx, read); err != nil {
			return nil, err
		}
		return nil, errors.NewInvalidStateError("visitor request has expired")
	}

	next := read.Clone()
	if err := mutate(next, now); err != nil {
		return nil, l.translateMutateError(read, err)
	}

	err := l.repo.UpdateIfStatus(ctx, next, read.Status())
	switch {
	case err == nil:
		return next, nil
	case stderrors.Is(err, visitor.ErrStatusConflict):
		l.logger.Warnw("conditional update lost",
			"request_id", read.ID(),
			"expected_status", read.Status(),
			"attempted_status", next.Status(),
		)
		return nil, errors.NewConflictError(
			"visitor request was modified concurrently",
			"re-read the request and retry",
		)
	case stderrors.Is(err, visitor.ErrApprovalCodeTaken):
		return nil, err
	default:
		l.logger.Errorw("failed to update visitor request", "request_id", read.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update visitor request")
	}
}

func (l *Lifecycle) translateReadError(requestID string, err error) error {
	if stderrors.Is(err, visitor.ErrRequestNotFound) {
		return errors.NewNotFoundError("visitor request not found", requestID)
	}
	l.logger.Errorw("failed to load visitor request", "request_id", requestID, "error", err)
	return errors.NewInternalError("failed to load visitor request")
}

func (l *Lifecycle) translateMutateError(read *visitor.VisitorRequest, err error) error {
	var verr *visitor.ValidationError
	switch {
	case stderrors.Is(err, visitor.ErrInvalidTransition):
		return errors.NewInvalidStateError(fmt.Sprintf("visitor request is %s", read.Status()), err.Error())
	case stderrors.As(err, &verr):
		return errors.NewValidationError("Validation failed", verr.Error())
	default:
		return errors.NewInternalError("failed to apply transition", err.Error())
	}
}
