package models

import "github.com/orris-inc/visitorpass/internal/shared/constants"

// UserAccountModel is the read-only view of the accounts owned by the
// authentication service. Only the columns needed to resolve requesters are mapped.
type UserAccountModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	Email     string `gorm:"size:254;uniqueIndex"`
	Name      string `gorm:"size:100"`
	Role      string `gorm:"size:32;not null;index"`
	Status    string `gorm:"size:20;not null;default:active"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (UserAccountModel) TableName() string {
	return constants.TableUsers
}
