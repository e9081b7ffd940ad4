package migration

import (
	"github.com/orris-inc/visitorpass/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserAccountModel{},
		&models.VisitorRequestModel{},
	}
}
