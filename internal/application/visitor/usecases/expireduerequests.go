package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

const defaultSweepBatchSize = 200

type ExpireDueRequestsResult struct {
	Scanned int
	Expired int
	// Skipped counts requests a concurrent writer moved first or that were not yet due.
	Skipped int
}

type ExpireDueRequestsExecutor interface {
	Execute(ctx context.Context) (*ExpireDueRequestsResult, error)
}

// ExpireDueRequestsUseCase persists the expiry derivation for every pending
// request whose scheduled day has ended. It is run by the scheduler and the
// sweep command.
type ExpireDueRequestsUseCase struct {
	repo      visitor.Repository
	lifecycle *services.Lifecycle
	batchSize int
	logger    logger.Interface
}

func NewExpireDueRequestsUseCase(
	repo visitor.Repository,
	lifecycle *services.Lifecycle,
	batchSize int,
	logger logger.Interface,
) *ExpireDueRequestsUseCase {
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &ExpireDueRequestsUseCase{
		repo:      repo,
		lifecycle: lifecycle,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (uc *ExpireDueRequestsUseCase) Execute(ctx context.Context) (*ExpireDueRequestsResult, error) {
	dayStart := biztime.StartOfDayUTC(uc.lifecycle.Now())
	result := &ExpireDueRequestsResult{}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := uc.repo.ListDuePending(ctx, dayStart, uc.batchSize)
		if err != nil {
			uc.logger.Errorw("failed to list due visitor requests", "error", err)
			return result, errors.NewInternalError("failed to list due visitor requests")
		}

		moved := 0
		for _, r := range batch {
			result.Scanned++
			expired, err := uc.lifecycle.Expire(ctx, r)
			if err != nil {
				if stderrors.Is(err, visitor.ErrStatusConflict) {
					result.Skipped++
					moved++
					continue
				}
				return result, err
			}
			if expired.Status() != vo.StatusExpired {
				// not past due by the time it was evaluated
				result.Skipped++
				continue
			}
			result.Expired++
			moved++
		}

		// Moved records leave pending, so the next query makes progress.
		if len(batch) < uc.batchSize || moved == 0 {
			break
		}
	}

	if result.Scanned > 0 {
		uc.logger.Infow("expiry sweep finished",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}
