package visitor

import (
	"context"
	"time"

	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
)

type Repository interface {
	Create(ctx context.Context, request *VisitorRequest) error
	// GetByID returns ErrRequestNotFound when no record matches.
	GetByID(ctx context.Context, id string) (*VisitorRequest, error)
	GetByApprovalCode(ctx context.Context, code string) (*VisitorRequest, error)
	// UpdateIfStatus writes request only while the stored status still equals expected.
	// It returns ErrStatusConflict when another writer got there first and
	// ErrApprovalCodeTaken when the approval code collides; nothing is written in either case.
	UpdateIfStatus(ctx context.Context, request *VisitorRequest, expected vo.RequestStatus) error
	List(ctx context.Context, filter Filter) ([]*VisitorRequest, int64, error)
	// ListDuePending returns pending requests scheduled strictly before dayStart, oldest first.
	ListDuePending(ctx context.Context, dayStart time.Time, limit int) ([]*VisitorRequest, error)
}

type Filter struct {
	Status        *vo.RequestStatus
	Priority      *vo.Priority
	Department    string
	RequestedBy   string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
