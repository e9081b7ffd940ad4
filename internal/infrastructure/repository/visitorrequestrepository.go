package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/visitorpass/internal/infrastructure/persistence/models"
	db "github.com/orris-inc/visitorpass/internal/shared/db"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// allowedVisitorRequestOrderByFields is the ORDER BY whitelist.
var allowedVisitorRequestOrderByFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"scheduled_date": true,
	"priority":       true,
	"status":         true,
}

// byID breaks ordering ties so paging is stable.
func byID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

type VisitorRequestRepository struct {
	db     *gorm.DB
	mapper mappers.VisitorRequestMapper
	logger logger.Interface
}

func NewVisitorRequestRepository(db *gorm.DB, logger logger.Interface) *VisitorRequestRepository {
	return &VisitorRequestRepository{
		db:     db,
		mapper: mappers.NewVisitorRequestMapper(),
		logger: logger,
	}
}

func (r *VisitorRequestRepository) Create(ctx context.Context, request *visitor.VisitorRequest) error {
	model := r.mapper.ToModel(request)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create visitor request: %w", err)
	}
	return nil
}

func (r *VisitorRequestRepository) GetByID(ctx context.Context, id string) (*visitor.VisitorRequest, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *VisitorRequestRepository) GetByApprovalCode(ctx context.Context, code string) (*visitor.VisitorRequest, error) {
	return r.first(ctx, "approval_code = ?", code)
}

func (r *VisitorRequestRepository) first(ctx context.Context, cond string, arg any) (*visitor.VisitorRequest, error) {
	var model models.VisitorRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(cond, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, visitor.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get visitor request: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// UpdateIfStatus is a single compare-and-swap statement:
// UPDATE ... SET ... WHERE id = ? AND status = ?.
// Only the fields a transition can change are written.
func (r *VisitorRequestRepository) UpdateIfStatus(ctx context.Context, request *visitor.VisitorRequest, expected vo.RequestStatus) error {
	model := r.mapper.ToModel(request)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.VisitorRequestModel{}).
		Where("id = ? AND status = ?", model.ID, expected.String()).
		Updates(map[string]any{
			"status":          model.Status,
			"reviewed_by":     model.ReviewedBy,
			"reviewed_at":     model.ReviewedAt,
			"review_comments": model.ReviewComments,
			"approval_code":   model.ApprovalCode,
			"checked_in_at":   model.CheckedInAt,
			"checked_out_at":  model.CheckedOutAt,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return visitor.ErrApprovalCodeTaken
		}
		return fmt.Errorf("failed to update visitor request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Debugw("conditional update matched no row",
			"request_id", model.ID,
			"expected_status", expected,
		)
		return visitor.ErrStatusConflict
	}
	return nil
}

func (r *VisitorRequestRepository) List(ctx context.Context, filter visitor.Filter) ([]*visitor.VisitorRequest, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.VisitorRequestModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.RequestedBy != "" {
		query = query.Where("requested_by = ?", filter.RequestedBy)
	}
	if filter.ScheduledFrom != nil {
		query = query.Where("scheduled_date >= ?", filter.ScheduledFrom.UnixMilli())
	}
	if filter.ScheduledTo != nil {
		query = query.Where("scheduled_date <= ?", filter.ScheduledTo.UnixMilli())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count visitor requests: %w", err)
	}

	query = query.Scopes(
		db.OrderBy(filter.SortBy, filter.SortOrder, allowedVisitorRequestOrderByFields, "created_at DESC"),
		byID,
		db.Paginate(filter.Page, filter.PageSize),
	)

	var rows []models.VisitorRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list visitor requests: %w", err)
	}

	requests, err := r.mapper.ToDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *VisitorRequestRepository) ListDuePending(ctx context.Context, dayStart time.Time, limit int) ([]*visitor.VisitorRequest, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.VisitorRequestModel
	err := tx.
		Where("status = ? AND scheduled_date < ?", vo.StatusPending.String(), dayStart.UnixMilli()).
		Order("scheduled_date ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due visitor requests: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}
