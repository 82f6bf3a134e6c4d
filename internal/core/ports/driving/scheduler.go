package driving

import "context"

// Scheduler runs the pipeline on a recurring schedule.
type Scheduler interface {
	// Start begins running scheduled passes.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler, waiting for an in-flight run.
	Stop() error
}
