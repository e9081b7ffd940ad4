package visitor

import (
	"strings"
	"time"

	vo "github.com/orris-inc/visitorpass/internal/domain/visitor/valueobjects"
)

// Candidate is the submitter-supplied part of a visitor request.
type Candidate struct {
	VisitorName   string   `validate:"required,max=100"`
	VisitorID     string   `validate:"required,max=50"`
	VisitorPhone  string   `validate:"required,visitor_phone"`
	VisitorEmail  string   `validate:"omitempty,visitor_email"`
	Purpose       string   `validate:"required,max=500"`
	ItemsBrought  []string `validate:"dive,max=100"`
	Department    string   `validate:"required,max=100"`
	RequestedBy   string   `validate:"required"`
	VisitDuration vo.VisitDuration
	ScheduledDate time.Time
	ScheduledTime string      `validate:"required,hhmm"`
	Priority      vo.Priority `validate:"omitempty,oneof=low medium high"`
}

// Normalize trims every string, lower-cases the email, drops blank items and
// defaults the priority.
func (c Candidate) Normalize() Candidate {
	c.VisitorName = strings.TrimSpace(c.VisitorName)
	c.VisitorID = strings.TrimSpace(c.VisitorID)
	c.VisitorPhone = strings.TrimSpace(c.VisitorPhone)
	c.VisitorEmail = strings.ToLower(strings.TrimSpace(c.VisitorEmail))
	c.Purpose = strings.TrimSpace(c.Purpose)
	c.Department = strings.TrimSpace(c.Department)
	c.RequestedBy = strings.TrimSpace(c.RequestedBy)
	c.ScheduledTime = strings.TrimSpace(c.ScheduledTime)

	items := make([]string, 0, len(c.ItemsBrought))
	for _, item := range c.ItemsBrought {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	c.ItemsBrought = items

	if c.Priority == "" {
		c.Priority = vo.PriorityMedium
	}
	return c
}
