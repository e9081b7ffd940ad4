package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type scopedRow struct {
	ID     string
	Status string
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return gdb
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantSQL  string
	}{
		{"second page", 2, 10, "LIMIT 10 OFFSET 10"},
		{"page below one", 0, 5, "LIMIT 5"},
		{"unbounded", 3, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := dryRunDB(t).Scopes(Paginate(tt.page, tt.pageSize)).Find(&[]scopedRow{}).Statement
			sql := stmt.SQL.String()
			if tt.wantSQL == "" {
				assert.NotContains(t, sql, "LIMIT")
				return
			}
			assert.Contains(t, sql, tt.wantSQL)
		})
	}
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "status": true}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"allowed ascending", "status", "asc", "ORDER BY status ASC"},
		{"allowed with bad order", "CREATED_AT", "sideways", "ORDER BY created_at DESC"},
		{"not allowed", "password", "asc", "ORDER BY created_at DESC"},
		{"empty", "", "", "ORDER BY created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := dryRunDB(t).Scopes(OrderBy(tt.sortBy, tt.sortOrder, allowed, "created_at DESC")).Find(&[]scopedRow{}).Statement
			assert.Contains(t, stmt.SQL.String(), tt.want)
		})
	}
}
