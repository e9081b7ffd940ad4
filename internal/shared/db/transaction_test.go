package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type ctxMarker struct{}

func TestGetTxFromContext(t *testing.T) {
	gdb := dryRunDB(t)
	ctx := context.WithValue(context.Background(), ctxMarker{}, "visitor")

	got := GetTxFromContext(ctx, gdb)
	assert.Equal(t, "visitor", got.Statement.Context.Value(ctxMarker{}))

	tx := gdb.Session(&gorm.Session{})
	inTx := GetTxFromContext(context.WithValue(ctx, txKey{}, tx), gdb)
	assert.Same(t, tx, inTx)
}
