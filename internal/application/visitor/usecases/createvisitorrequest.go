package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/id"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type CreateVisitorRequestCommand struct {
	Actor     visitor.Actor
	Candidate visitor.Candidate
}

type CreateVisitorRequestExecutor interface {
	Execute(ctx context.Context, cmd CreateVisitorRequestCommand) (*dto.VisitorRequestDTO, error)
}

type CreateVisitorRequestUseCase struct {
	repo      visitor.Repository
	accounts  visitor.AccountDirectory
	lifecycle *services.Lifecycle
	validator *visitor.Validator
	newID     func() (string, error)
	logger    logger.Interface
}

func NewCreateVisitorRequestUseCase(
	repo visitor.Repository,
	accounts visitor.AccountDirectory,
	lifecycle *services.Lifecycle,
	validator *visitor.Validator,
	logger logger.Interface,
) *CreateVisitorRequestUseCase {
	return &CreateVisitorRequestUseCase{
		repo:      repo,
		accounts:  accounts,
		lifecycle: lifecycle,
		validator: validator,
		newID:     id.NewVisitorRequestID,
		logger:    logger,
	}
}

func (uc *CreateVisitorRequestUseCase) Execute(ctx context.Context, cmd CreateVisitorRequestCommand) (*dto.VisitorRequestDTO, error) {
	uc.logger.Infow("executing create visitor request use case", "user_id", cmd.Actor.UserID)

	if err := uc.lifecycle.Authorize(ctx, cmd.Actor, visitor.CapabilitySubmit); err != nil {
		return nil, err
	}

	// The requester is always the caller.
	candidate := cmd.Candidate
	candidate.RequestedBy = cmd.Actor.UserID
	candidate = candidate.Normalize()

	reasons := uc.validator.Reasons(candidate)
	if candidate.RequestedBy != "" {
		active, err := uc.accounts.IsActive(ctx, candidate.RequestedBy)
		if err != nil {
			uc.logger.Errorw("failed to resolve requester account", "user_id", candidate.RequestedBy, "error", err)
			return nil, errors.NewInternalError("failed to resolve requester account")
		}
		if !active {
			reasons = append(reasons, visitor.ReasonRequesterInactive)
		}
	}
	if len(reasons) > 0 {
		uc.logger.Warnw("visitor request rejected", "user_id", cmd.Actor.UserID, "reasons", len(reasons))
		return nil, errors.NewValidationError("Validation failed", strings.Join(reasons, ". "))
	}

	requestID, err := uc.newID()
	if err != nil {
		uc.logger.Errorw("failed to generate visitor request id", "error", err)
		return nil, errors.NewInternalError("failed to create visitor request")
	}

	r, err := visitor.NewVisitorRequest(requestID, candidate, uc.lifecycle.Now())
	if err != nil {
		uc.logger.Errorw("failed to build visitor request", "error", err)
		return nil, errors.NewInternalError("failed to create visitor request", err.Error())
	}

	if err := uc.repo.Create(ctx, r); err != nil {
		uc.logger.Errorw("failed to persist visitor request", "request_id", requestID, "error", err)
		return nil, errors.NewInternalError("failed to create visitor request")
	}

	uc.logger.Infow("visitor request created",
		"request_id", r.ID(),
		"department", r.Department(),
		"scheduled_date", r.ScheduledDate(),
		"visit_duration", r.VisitDuration().String(),
	)

	return dto.ToVisitorRequestDTO(r), nil
}
