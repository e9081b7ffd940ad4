package mappers

import (
	"fmt"
	"time"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/infrastructure/persistence/models"
)

// VisitorRequestMapper converts between the aggregate and its storage row.
type VisitorRequestMapper interface {
	ToModel(r *visitor.VisitorRequest) *models.VisitorRequestModel
	ToDomain(model *models.VisitorRequestModel) (*visitor.VisitorRequest, error)
	ToDomainList(rows []models.VisitorRequestModel) ([]*visitor.VisitorRequest, error)
}

type VisitorRequestMapperImpl struct{}

func NewVisitorRequestMapper() VisitorRequestMapper {
	return &VisitorRequestMapperImpl{}
}

func (m *VisitorRequestMapperImpl) ToModel(r *visitor.VisitorRequest) *models.VisitorRequestModel {
	d := r.VisitDuration()
	model := &models.VisitorRequestModel{
		ID:             r.ID(),
		VisitorName:    r.VisitorName(),
		VisitorID:      r.VisitorID(),
		VisitorPhone:   r.VisitorPhone(),
		VisitorEmail:   r.VisitorEmail(),
		Purpose:        r.Purpose(),
		ItemsBrought:   r.ItemsBrought(),
		Department:     r.Department(),
		RequestedBy:    r.RequestedBy(),
		DurationHours:  d.Hours,
		DurationDays:   d.Days,
		ScheduledDate:  r.ScheduledDate().UnixMilli(),
		ScheduledTime:  r.ScheduledTime(),
		Priority:       r.Priority().String(),
		Status:         r.Status().String(),
		ReviewedBy:     r.ReviewedBy(),
		ReviewedAt:     toMillisPtr(r.ReviewedAt()),
		ReviewComments: r.ReviewComments(),
		CheckedInAt:    toMillisPtr(r.CheckedInAt()),
		CheckedOutAt:   toMillisPtr(r.CheckedOutAt()),
		Version:        r.Version(),
		CreatedAt:      r.CreatedAt().UnixMilli(),
		UpdatedAt:      r.UpdatedAt().UnixMilli(),
	}
	if code := r.ApprovalCode(); code != "" {
		model.ApprovalCode = &code
	}
	return model
}

func (m *VisitorRequestMapperImpl) ToDomain(model *models.VisitorRequestModel) (*visitor.VisitorRequest, error) {
	status, err := vo.NewRequestStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("visitor request %s: %w", model.ID, err)
	}
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("visitor request %s: %w", model.ID, err)
	}

	var code string
	if model.ApprovalCode != nil {
		code = *model.ApprovalCode
	}

	return visitor.ReconstructVisitorRequest(visitor.ReconstructParams{
		ID:             model.ID,
		VisitorName:    model.VisitorName,
		VisitorID:      model.VisitorID,
		VisitorPhone:   model.VisitorPhone,
		VisitorEmail:   model.VisitorEmail,
		Purpose:        model.Purpose,
		ItemsBrought:   []string(model.ItemsBrought),
		Department:     model.Department,
		RequestedBy:    model.RequestedBy,
		VisitDuration:  vo.VisitDuration{Hours: model.DurationHours, Days: model.DurationDays},
		ScheduledDate:  fromMillis(model.ScheduledDate),
		ScheduledTime:  model.ScheduledTime,
		Priority:       priority,
		Status:         status,
		ReviewedBy:     model.ReviewedBy,
		ReviewedAt:     fromMillisPtr(model.ReviewedAt),
		ReviewComments: model.ReviewComments,
		ApprovalCode:   code,
		CheckedInAt:    fromMillisPtr(model.CheckedInAt),
		CheckedOutAt:   fromMillisPtr(model.CheckedOutAt),
		Version:        model.Version,
		CreatedAt:      fromMillis(model.CreatedAt),
		UpdatedAt:      fromMillis(model.UpdatedAt),
	})
}

func (m *VisitorRequestMapperImpl) ToDomainList(rows []models.VisitorRequestModel) ([]*visitor.VisitorRequest, error) {
	out := make([]*visitor.VisitorRequest, 0, len(rows))
	for i := range rows {
		r, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMillis(*ms)
	return &t
}

func toMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
