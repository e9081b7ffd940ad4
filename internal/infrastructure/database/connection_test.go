package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/shared/config"
)

func TestOpen_SQLite(t *testing.T) {
	gdb, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "mysql", DriverName(&config.DatabaseConfig{}))
	assert.Equal(t, "postgres", DriverName(&config.DatabaseConfig{Driver: "Postgres"}))
}

func TestClose_WithoutInit(t *testing.T) {
	assert.NoError(t, Close())
}
