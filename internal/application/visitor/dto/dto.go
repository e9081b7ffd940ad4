package dto

import (
	"time"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
)

type VisitDurationDTO struct {
	Hours int `json:"hours"`
	Days  int `json:"days"`
}

type VisitorRequestDTO struct {
	ID             string           `json:"id"`
	VisitorName    string           `json:"visitor_name"`
	VisitorID      string           `json:"visitor_id"`
	VisitorPhone   string           `json:"visitor_phone"`
	VisitorEmail   string           `json:"visitor_email,omitempty"`
	Purpose        string           `json:"purpose"`
	ItemsBrought   []string         `json:"items_brought"`
	Department     string           `json:"department"`
	RequestedBy    string           `json:"requested_by"`
	VisitDuration  VisitDurationDTO `json:"visit_duration"`
	ScheduledDate  string           `json:"scheduled_date"`
	ScheduledTime  string           `json:"scheduled_time"`
	Priority       string           `json:"priority"`
	Status         string           `json:"status"`
	ReviewedBy     *string          `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	ReviewComments string           `json:"review_comments,omitempty"`
	ApprovalCode   string           `json:"approval_code,omitempty"`
	CheckedInAt    *time.Time       `json:"checked_in_at,omitempty"`
	CheckedOutAt   *time.Time       `json:"checked_out_at,omitempty"`
	Version        int              `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func ToVisitorRequestDTO(r *visitor.VisitorRequest) *VisitorRequestDTO {
	if r == nil {
		return nil
	}

	d := r.VisitDuration()
	return &VisitorRequestDTO{
		ID:             r.ID(),
		VisitorName:    r.VisitorName(),
		VisitorID:      r.VisitorID(),
		VisitorPhone:   r.VisitorPhone(),
		VisitorEmail:   r.VisitorEmail(),
		Purpose:        r.Purpose(),
		ItemsBrought:   r.ItemsBrought(),
		Department:     r.Department(),
		RequestedBy:    r.RequestedBy(),
		VisitDuration:  VisitDurationDTO{Hours: d.Hours, Days: d.Days},
		ScheduledDate:  biztime.FormatDate(r.ScheduledDate()),
		ScheduledTime:  r.ScheduledTime(),
		Priority:       r.Priority().String(),
		Status:         r.Status().String(),
		ReviewedBy:     r.ReviewedBy(),
		ReviewedAt:     r.ReviewedAt(),
		ReviewComments: r.ReviewComments(),
		ApprovalCode:   r.ApprovalCode(),
		CheckedInAt:    r.CheckedInAt(),
		CheckedOutAt:   r.CheckedOutAt(),
		Version:        r.Version(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}

func ToVisitorRequestDTOs(requests []*visitor.VisitorRequest) []*VisitorRequestDTO {
	out := make([]*VisitorRequestDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToVisitorRequestDTO(r))
	}
	return out
}
