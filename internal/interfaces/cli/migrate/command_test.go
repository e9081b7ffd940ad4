package migrate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/infrastructure/migration"
)

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	states := []migration.MigrationState{
		{Version: 1, Path: "00001_create_users.sql", Applied: true, AppliedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{Version: 2, Path: "00002_create_visitor_requests.sql"},
	}

	require.NoError(t, printStatus(&buf, "test", 1, states))

	out := buf.String()
	assert.Contains(t, out, "Current Version: 1")
	assert.Contains(t, out, "00001_create_users.sql")
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "pending")
}

func TestNewCommand_Subcommands(t *testing.T) {
	cmd := NewCommand()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, names)

	down, _, err := cmd.Find([]string{"down"})
	require.NoError(t, err)
	assert.Equal(t, "1", down.Flags().Lookup("steps").DefValue)
}
