package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GetTxFromContext returns the transaction carried by ctx, or defaultDB bound
// to ctx when there is none. Repositories resolve their handle through it.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
