package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

const defaultApprovalCodeAttempts = 3

type ReviewVisitorRequestCommand struct {
	Actor          visitor.Actor
	RequestID      string
	Decision       string
	ReviewComments string
}

type ReviewVisitorRequestExecutor interface {
	Execute(ctx context.Context, cmd ReviewVisitorRequestCommand) (*dto.VisitorRequestDTO, error)
}

type ReviewVisitorRequestUseCase struct {
	lifecycle    *services.Lifecycle
	generateCode visitor.CodeGenerator
	codeAttempts int
	logger       logger.Interface
}

func NewReviewVisitorRequestUseCase(
	lifecycle *services.Lifecycle,
	generateCode visitor.CodeGenerator,
	codeAttempts int,
	logger logger.Interface,
) *ReviewVisitorRequestUseCase {
	if generateCode == nil {
		generateCode = visitor.GenerateApprovalCode
	}
	if codeAttempts <= 0 {
		codeAttempts = defaultApprovalCodeAttempts
	}
	return &ReviewVisitorRequestUseCase{
		lifecycle:    lifecycle,
		generateCode: generateCode,
		codeAttempts: codeAttempts,
		logger:       logger,
	}
}

func (uc *ReviewVisitorRequestUseCase) Execute(ctx context.Context, cmd ReviewVisitorRequestCommand) (*dto.VisitorRequestDTO, error) {
	uc.logger.Infow("executing review visitor request use case",
		"request_id", cmd.RequestID,
		"reviewer_id", cmd.Actor.UserID,
		"decision", cmd.Decision,
	)

	if err := uc.lifecycle.Authorize(ctx, cmd.Actor, visitor.CapabilityReview); err != nil {
		return nil, err
	}

	decision, err := vo.NewDecision(cmd.Decision)
	if err != nil {
		return nil, errors.NewValidationError("Validation failed", "Decision must be approved or declined")
	}
	if err := visitor.ValidateReviewComments(cmd.ReviewComments); err != nil {
		return nil, errors.NewValidationError("Validation failed", err.Error())
	}

	current, err := uc.lifecycle.Load(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if !current.Status().IsPending() {
		uc.logger.Warnw("review rejected, request already decided",
			"request_id", cmd.RequestID,
			"status", current.Status(),
		)
		return nil, errors.NewInvalidStateError("visitor request is "+current.Status().String(), "only pending requests can be reviewed")
	}

	for attempt := 1; attempt <= uc.codeAttempts; attempt++ {
		var code string
		if decision == vo.DecisionApproved && !current.HasApprovalCode() {
			code, err = uc.generateCode(uc.lifecycle.Now())
			if err != nil {
				uc.logger.Errorw("failed to generate approval code", "request_id", cmd.RequestID, "error", err)
				return nil, errors.NewInternalError("failed to generate approval code")
			}
		}

		reviewed, err := uc.lifecycle.Commit(ctx, current, func(next *visitor.VisitorRequest, now time.Time) error {
			return next.Review(cmd.Actor.UserID, decision, cmd.ReviewComments, code, now)
		})
		if err == nil {
			uc.logger.Infow("visitor request reviewed",
				"request_id", reviewed.ID(),
				"reviewer_id", cmd.Actor.UserID,
				"status", reviewed.Status(),
			)
			return dto.ToVisitorRequestDTO(reviewed), nil
		}
		if !stderrors.Is(err, visitor.ErrApprovalCodeTaken) {
			return nil, err
		}
		uc.logger.Warnw("approval code collision, regenerating", "request_id", cmd.RequestID, "attempt", attempt)
	}

	uc.logger.Errorw("exhausted approval code attempts", "request_id", cmd.RequestID, "attempts", uc.codeAttempts)
	return nil, errors.NewInternalError("failed to allocate a unique approval code")
}
