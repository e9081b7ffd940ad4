package usecases

import (
	"context"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type GetVisitorRequestQuery struct {
	Actor     visitor.Actor
	RequestID string
}

type GetVisitorRequestExecutor interface {
	Execute(ctx context.Context, query GetVisitorRequestQuery) (*dto.VisitorRequestDTO, error)
}

type GetVisitorRequestUseCase struct {
	lifecycle *services.Lifecycle
	logger    logger.Interface
}

func NewGetVisitorRequestUseCase(lifecycle *services.Lifecycle, logger logger.Interface) *GetVisitorRequestUseCase {
	return &GetVisitorRequestUseCase{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Execute checks capabilities before the store is touched. Only the ownership
// check for submitters needs the loaded record.
func (uc *GetVisitorRequestUseCase) Execute(ctx context.Context, query GetVisitorRequestQuery) (*dto.VisitorRequestDTO, error) {
	readAll, err := uc.lifecycle.Can(ctx, query.Actor, visitor.CapabilityReadAll)
	if err != nil {
		return nil, err
	}
	if !readAll {
		if err := uc.lifecycle.Authorize(ctx, query.Actor, visitor.CapabilitySubmit); err != nil {
			return nil, err
		}
	}

	r, err := uc.lifecycle.Load(ctx, query.RequestID)
	if err != nil {
		return nil, err
	}

	if !readAll && r.RequestedBy() != query.Actor.UserID {
		uc.logger.Warnw("access to foreign visitor request denied",
			"request_id", query.RequestID,
			"user_id", query.Actor.UserID,
		)
		return nil, errors.NewForbiddenError("you do not have permission to view this visitor request")
	}

	return dto.ToVisitorRequestDTO(r), nil
}
