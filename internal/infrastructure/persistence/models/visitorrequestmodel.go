package models

import (
	"gorm.io/datatypes"

	"github.com/orris-inc/visitorpass/internal/shared/constants"
)

// VisitorRequestModel is the storage row of a visitor request. Timestamps are unix
// milliseconds; scheduled_date is the business-day midnight in UTC milliseconds.
type VisitorRequestModel struct {
	ID             string                      `gorm:"primaryKey;size:32"`
	VisitorName    string                      `gorm:"size:100;not null"`
	VisitorID      string                      `gorm:"size:50;not null"`
	VisitorPhone   string                      `gorm:"size:20;not null"`
	VisitorEmail   string                      `gorm:"size:254"`
	Purpose        string                      `gorm:"size:500;not null"`
	ItemsBrought   datatypes.JSONSlice[string] `gorm:"type:json"`
	Department     string                      `gorm:"size:100;not null;index"`
	RequestedBy    string                      `gorm:"size:64;not null;index"`
	DurationHours  int                         `gorm:"not null;default:0"`
	DurationDays   int                         `gorm:"not null;default:0"`
	ScheduledDate  int64                       `gorm:"not null;index;index:idx_visitor_requests_status_date,priority:2"`
	ScheduledTime  string                      `gorm:"size:5;not null"`
	Priority       string                      `gorm:"size:10;not null;default:medium"`
	Status         string                      `gorm:"size:20;not null;index;index:idx_visitor_requests_status_date,priority:1"`
	ReviewedBy     *string                     `gorm:"size:64"`
	ReviewedAt     *int64
	ReviewComments string  `gorm:"size:500"`
	ApprovalCode   *string `gorm:"size:16;uniqueIndex"`
	CheckedInAt    *int64
	CheckedOutAt   *int64
	Version        int   `gorm:"not null;default:1"`
	CreatedAt      int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt      int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (VisitorRequestModel) TableName() string {
	return constants.TableVisitorRequests
}
