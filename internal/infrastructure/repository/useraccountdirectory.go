package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/infrastructure/persistence/models"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	db "github.com/orris-inc/visitorpass/internal/shared/db"
)

// UserAccountDirectory resolves requester references against the users table.
type UserAccountDirectory struct {
	db *gorm.DB
}

func NewUserAccountDirectory(db *gorm.DB) *UserAccountDirectory {
	return &UserAccountDirectory{db: db}
}

func (d *UserAccountDirectory) IsActive(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, d.db).
		Model(&models.UserAccountModel{}).
		Where("id = ? AND status = ?", userID, constants.UserStatusActive).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to resolve account %s: %w", userID, err)
	}
	return count > 0, nil
}
