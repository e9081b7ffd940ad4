package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type LookupByApprovalCodeQuery struct {
	Actor        visitor.Actor
	ApprovalCode string
}

type LookupByApprovalCodeExecutor interface {
	Execute(ctx context.Context, query LookupByApprovalCodeQuery) (*dto.VisitorRequestDTO, error)
}

// LookupByApprovalCodeUseCase serves the gate desk before check-in.
type LookupByApprovalCodeUseCase struct {
	repo      visitor.Repository
	lifecycle *services.Lifecycle
	logger    logger.Interface
}

func NewLookupByApprovalCodeUseCase(
	repo visitor.Repository,
	lifecycle *services.Lifecycle,
	logger logger.Interface,
) *LookupByApprovalCodeUseCase {
	return &LookupByApprovalCodeUseCase{
		repo:      repo,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

func (uc *LookupByApprovalCodeUseCase) Execute(ctx context.Context, query LookupByApprovalCodeQuery) (*dto.VisitorRequestDTO, error) {
	if err := uc.lifecycle.Authorize(ctx, query.Actor, visitor.CapabilityGate); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(query.ApprovalCode))
	if code == "" {
		return nil, errors.NewValidationError("approval code is required")
	}

	r, err := uc.repo.GetByApprovalCode(ctx, code)
	if err != nil {
		if stderrors.Is(err, visitor.ErrRequestNotFound) {
			return nil, errors.NewNotFoundError("no visitor request carries this approval code")
		}
		uc.logger.Errorw("failed to look up approval code", "error", err)
		return nil, errors.NewInternalError("failed to look up approval code")
	}

	return dto.ToVisitorRequestDTO(r), nil
}
