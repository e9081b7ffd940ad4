package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

func TestSchedulerManager_RunsExpirySweep(t *testing.T) {
	m, err := NewSchedulerManager(logger.Nop())
	require.NoError(t, err)

	var runs atomic.Int32
	sweep := BatchJobFunc(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 2, nil
	})

	require.NoError(t, m.RegisterExpirySweep(sweep, 50*time.Millisecond))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "visitor-request-expiry-sweep", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestSchedulerManager_SweepErrorDoesNotStopJob(t *testing.T) {
	m, err := NewSchedulerManager(logger.Nop())
	require.NoError(t, err)

	var runs atomic.Int32
	sweep := BatchJobFunc(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 0, errors.New("database unavailable")
	})

	require.NoError(t, m.RegisterExpirySweep(sweep, 50*time.Millisecond))
	m.Start()
	t.Cleanup(func() { _ = m.Stop() })

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerManager_DefaultInterval(t *testing.T) {
	m, err := NewSchedulerManager(logger.Nop())
	require.NoError(t, err)

	require.NoError(t, m.RegisterExpirySweep(BatchJobFunc(func(context.Context) (int, error) { return 0, nil }), 0))
	require.Len(t, m.Jobs(), 1)
	assert.ElementsMatch(t, []string{"visitor_request", "expire"}, m.Jobs()[0].Tags())
}
