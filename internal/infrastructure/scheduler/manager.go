// Package scheduler runs the service's periodic jobs on gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// DefaultSweepInterval applies when the configured interval is not positive.
const DefaultSweepInterval = 15 * time.Minute

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

// SchedulerManager owns the gocron scheduler instance.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterExpirySweep runs sweep every interval, starting immediately. A run
// that overlaps the previous one is skipped and rescheduled.
func (m *SchedulerManager) RegisterExpirySweep(sweep BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	timeout := interval
	if timeout > 5*time.Minute {
		timeout = 5 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runExpirySweep(ctx, sweep)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("visitor_request", "expire"),
		gocron.WithName("visitor-request-expiry-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered expiry sweep job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runExpirySweep(ctx context.Context, sweep BatchJob) {
	m.logger.Debugw("expiry sweep started")

	startTime := biztime.NowUTC()

	expired, err := sweep.Execute(ctx)
	if err != nil {
		// shutdown cancels the context, nothing to report
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("expiry sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expired > 0 {
		m.logger.Infow("expired past-due visitor requests",
			"count", expired,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no past-due visitor requests",
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
