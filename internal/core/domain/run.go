package domain

import "time"

// RunReport records what a single orchestrated run did.
type RunReport struct {
	// ID is the unique identifier for the run.
	ID string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Fetched counts candidates returned by all sources.
	Fetched int

	// Novel counts candidates whose title was not yet seen.
	Novel int

	// Admitted counts candidates stored this run.
	Admitted int

	// Degraded counts admitted items whose summary is a marker.
	Degraded int

	// Rejected counts candidates the model judged irrelevant.
	Rejected int

	// Skipped counts candidates dropped after a failed model call.
	Skipped int

	// FailedSources lists the tags of sources that yielded nothing due to an error.
	FailedSources []string

	// HistorySize is the persisted history length.
	HistorySize int

	// Evicted counts items that fell past capacity.
	Evicted int

	// DigestWritten is true if a digest file was written.
	DigestWritten bool

	// DigestError describes why no digest was written, if any.
	DigestError string

	// Error contains the fatal error message, if any.
	Error string
}

// Success reports whether the run persisted its history.
func (r *RunReport) Success() bool {
	return r.Error == ""
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
