package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type CheckOutVisitorCommand struct {
	Actor     visitor.Actor
	RequestID string
}

type CheckOutVisitorExecutor interface {
	Execute(ctx context.Context, cmd CheckOutVisitorCommand) (*dto.VisitorRequestDTO, error)
}

type CheckOutVisitorUseCase struct {
	lifecycle *services.Lifecycle
	logger    logger.Interface
}

func NewCheckOutVisitorUseCase(lifecycle *services.Lifecycle, logger logger.Interface) *CheckOutVisitorUseCase {
	return &CheckOutVisitorUseCase{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

func (uc *CheckOutVisitorUseCase) Execute(ctx context.Context, cmd CheckOutVisitorCommand) (*dto.VisitorRequestDTO, error) {
	uc.logger.Infow("executing check-out use case", "request_id", cmd.RequestID, "gate_user_id", cmd.Actor.UserID)

	if err := uc.lifecycle.Authorize(ctx, cmd.Actor, visitor.CapabilityGate); err != nil {
		return nil, err
	}

	current, err := uc.lifecycle.Load(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if !current.Status().IsCheckedIn() {
		uc.logger.Warnw("check-out rejected", "request_id", cmd.RequestID, "status", current.Status())
		return nil, errors.NewInvalidStateError(fmt.Sprintf("visitor request is %s", current.Status()))
	}

	updated, err := uc.lifecycle.Commit(ctx, current, func(next *visitor.VisitorRequest, now time.Time) error {
		return next.CheckOut(now)
	})
	if err != nil {
		uc.logger.Warnw("check-out failed", "request_id", cmd.RequestID, "status", current.Status(), "error", err)
		return nil, err
	}

	uc.logger.Infow("visitor checked out", "request_id", updated.ID())
	return dto.ToVisitorRequestDTO(updated), nil
}
