package visitor

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/application/visitor/usecases"
	domain "github.com/orris-inc/visitorpass/internal/domain/visitor"
	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/utils"
)

// Field-level checks happen in the domain validator so that every problem is
// reported at once; binding only decodes.
type CreateVisitorRequestRequest struct {
	VisitorName   string           `json:"visitor_name"`
	VisitorID     string           `json:"visitor_id"`
	VisitorPhone  string           `json:"visitor_phone"`
	VisitorEmail  string           `json:"visitor_email"`
	Purpose       string           `json:"purpose"`
	ItemsBrought  []string         `json:"items_brought"`
	Department    string           `json:"department"`
	VisitDuration vo.VisitDuration `json:"visit_duration"`
	ScheduledDate string           `json:"scheduled_date" example:"2026-03-01"`
	ScheduledTime string           `json:"scheduled_time" example:"14:30"`
	Priority      string           `json:"priority" example:"medium"`
}

func (r *CreateVisitorRequestRequest) ToCommand(actor domain.Actor) (usecases.CreateVisitorRequestCommand, error) {
	var scheduled time.Time
	if s := strings.TrimSpace(r.ScheduledDate); s != "" {
		t, err := biztime.ParseDateInBizTimezone(s)
		if err != nil {
			return usecases.CreateVisitorRequestCommand{}, errors.NewValidationError(
				"Validation failed", "Scheduled date must be in YYYY-MM-DD format")
		}
		scheduled = t
	}

	return usecases.CreateVisitorRequestCommand{
		Actor: actor,
		Candidate: domain.Candidate{
			VisitorName:   r.VisitorName,
			VisitorID:     r.VisitorID,
			VisitorPhone:  r.VisitorPhone,
			VisitorEmail:  r.VisitorEmail,
			Purpose:       utils.SanitizeText(r.Purpose),
			ItemsBrought:  utils.SanitizeTexts(r.ItemsBrought),
			Department:    r.Department,
			VisitDuration: r.VisitDuration,
			ScheduledDate: scheduled,
			ScheduledTime: r.ScheduledTime,
			Priority:      vo.Priority(strings.ToLower(strings.TrimSpace(r.Priority))),
		},
	}, nil
}

type ReviewVisitorRequestRequest struct {
	Decision       string `json:"decision" validate:"required" example:"approved"`
	ReviewComments string `json:"review_comments" validate:"max=500"`
}

type CheckInVisitorRequest struct {
	ApprovalCode string `json:"approval_code"`
}

func parseListQuery(c *gin.Context, actor domain.Actor) usecases.ListVisitorRequestsQuery {
	p := utils.ParsePagination(c)
	return usecases.ListVisitorRequestsQuery{
		Actor:         actor,
		Status:        c.Query("status"),
		Priority:      c.Query("priority"),
		Department:    c.Query("department"),
		RequestedBy:   c.Query("requested_by"),
		ScheduledFrom: c.Query("scheduled_from"),
		ScheduledTo:   c.Query("scheduled_to"),
		Page:          p.Page,
		PageSize:      p.PageSize,
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}
}
