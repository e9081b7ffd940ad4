package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type CheckInVisitorCommand struct {
	Actor     visitor.Actor
	RequestID string
	// ApprovalCode is optional. When given it must match the request's code.
	ApprovalCode string
}

type CheckInVisitorExecutor interface {
	Execute(ctx context.Context, cmd CheckInVisitorCommand) (*dto.VisitorRequestDTO, error)
}

type CheckInVisitorUseCase struct {
	lifecycle *services.Lifecycle
	logger    logger.Interface
}

func NewCheckInVisitorUseCase(lifecycle *services.Lifecycle, logger logger.Interface) *CheckInVisitorUseCase {
	return &CheckInVisitorUseCase{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

func (uc *CheckInVisitorUseCase) Execute(ctx context.Context, cmd CheckInVisitorCommand) (*dto.VisitorRequestDTO, error) {
	uc.logger.Infow("executing check-in use case", "request_id", cmd.RequestID, "gate_user_id", cmd.Actor.UserID)

	if err := uc.lifecycle.Authorize(ctx, cmd.Actor, visitor.CapabilityGate); err != nil {
		return nil, err
	}

	current, err := uc.lifecycle.Load(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if !current.Status().IsApproved() {
		uc.logger.Warnw("check-in rejected", "request_id", cmd.RequestID, "status", current.Status())
		return nil, errors.NewInvalidStateError(fmt.Sprintf("visitor request is %s", current.Status()))
	}
	if cmd.ApprovalCode != "" && cmd.ApprovalCode != current.ApprovalCode() {
		uc.logger.Warnw("approval code mismatch at check-in", "request_id", cmd.RequestID)
		return nil, errors.NewValidationError(constants.ErrMsgValidationFailed, "Approval code does not match")
	}

	updated, err := uc.lifecycle.Commit(ctx, current, func(next *visitor.VisitorRequest, now time.Time) error {
		return next.CheckIn(now)
	})
	if err != nil {
		uc.logger.Warnw("check-in failed", "request_id", cmd.RequestID, "status", current.Status(), "error", err)
		return nil, err
	}

	uc.logger.Infow("visitor checked in", "request_id", updated.ID())
	return dto.ToVisitorRequestDTO(updated), nil
}
