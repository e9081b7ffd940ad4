package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/visitorpass/internal/application/visitor/dto"
	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

type ListVisitorRequestsQuery struct {
	Actor         visitor.Actor
	Status        string
	Priority      string
	Department    string
	RequestedBy   string
	ScheduledFrom string
	ScheduledTo   string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

type ListVisitorRequestsResult struct {
	Requests []*dto.VisitorRequestDTO `json:"requests"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

type ListVisitorRequestsExecutor interface {
	Execute(ctx context.Context, query ListVisitorRequestsQuery) (*ListVisitorRequestsResult, error)
}

type ListVisitorRequestsUseCase struct {
	repo      visitor.Repository
	lifecycle *services.Lifecycle
	logger    logger.Interface
}

func NewListVisitorRequestsUseCase(
	repo visitor.Repository,
	lifecycle *services.Lifecycle,
	logger logger.Interface,
) *ListVisitorRequestsUseCase {
	return &ListVisitorRequestsUseCase{
		repo:      repo,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

func (uc *ListVisitorRequestsUseCase) Execute(ctx context.Context, query ListVisitorRequestsQuery) (*ListVisitorRequestsResult, error) {
	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	readAll, err := uc.lifecycle.Can(ctx, query.Actor, visitor.CapabilityReadAll)
	if err != nil {
		return nil, err
	}
	if !readAll {
		if err := uc.lifecycle.Authorize(ctx, query.Actor, visitor.CapabilitySubmit); err != nil {
			return nil, err
		}
		filter.RequestedBy = query.Actor.UserID
	}

	requests, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list visitor requests", "error", err)
		return nil, errors.NewInternalError("failed to list visitor requests")
	}

	// Apply the expiry derivation to every returned record. A record that expires
	// here no longer matches a pending filter and is dropped from the page.
	out := make([]*visitor.VisitorRequest, 0, len(requests))
	for _, r := range requests {
		refreshed, err := uc.lifecycle.Refresh(ctx, r)
		if err != nil {
			return nil, err
		}
		if filter.Status != nil && refreshed.Status() != *filter.Status {
			total--
			continue
		}
		out = append(out, refreshed)
	}

	return &ListVisitorRequestsResult{
		Requests: dto.ToVisitorRequestDTOs(out),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListVisitorRequestsUseCase) buildFilter(query ListVisitorRequestsQuery) (visitor.Filter, error) {
	filter := visitor.Filter{
		Department:  query.Department,
		RequestedBy: query.RequestedBy,
		Page:        query.Page,
		PageSize:    query.PageSize,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}

	if query.Status != "" {
		status, err := vo.NewRequestStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError("invalid status filter", query.Status)
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewValidationError("invalid priority filter", query.Priority)
		}
		filter.Priority = &priority
	}

	from, err := parseOptionalDate(query.ScheduledFrom)
	if err != nil {
		return filter, err
	}
	to, err := parseOptionalDate(query.ScheduledTo)
	if err != nil {
		return filter, err
	}
	filter.ScheduledFrom = from
	filter.ScheduledTo = to

	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	// SortBy and SortOrder are checked against the repository whitelist.
	return filter, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := biztime.ParseDateInBizTimezone(s)
	if err != nil {
		return nil, errors.NewValidationError("invalid date, expected YYYY-MM-DD", s)
	}
	return &t, nil
}
