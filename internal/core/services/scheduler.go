package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
	"github.com/custodia-labs/radar/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// cronParser accepts standard five-field expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs the pipeline on a cron schedule.
// Runs are strictly sequential: the next fire time is computed only after
// the previous run returns, so runs never overlap.
type Scheduler struct {
	schedule   cron.Schedule
	pipeline   driving.Pipeline
	runOnStart bool
	now        func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler from configuration.
func NewScheduler(settings domain.ScheduleSettings, pipeline driving.Pipeline) (*Scheduler, error) {
	schedule, err := ParseSchedule(settings.Cron)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		schedule:   schedule,
		pipeline:   pipeline,
		runOnStart: settings.RunOnStart,
		now:        time.Now,
	}, nil
}

// ParseSchedule parses a cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %w", domain.ErrInvalidInput, expr, err)
	}
	return schedule, nil
}

// Next returns the first fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if s.runOnStart {
		s.runOnce(ctx)
	}

	for {
		next := s.schedule.Next(s.now())
		logger.Info("Next run at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return ctx.Err()
		case <-stopCh:
			timer.Stop()
			return nil
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler, waiting for a run in progress.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for the loop, and any pass in progress, to return
	s.wg.Wait()

	return nil
}

// runOnce executes a single pipeline pass and logs its outcome.
func (s *Scheduler) runOnce(ctx context.Context) {
	report, err := s.pipeline.Run(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		logger.Warn("scheduler: previous run still in progress, skipping")
	case err != nil:
		logger.Error("scheduler: run failed: %v", err)
	case report != nil:
		logger.Info("scheduler: run %s admitted %d of %d novel items", report.ID, report.Admitted, report.Novel)
	}
}
