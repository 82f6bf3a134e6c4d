package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
	"github.com/custodia-labs/radar/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.Pipeline = (*PipelineOrchestrator)(nil)

// PipelineOrchestrator drives one run at a time through its stages:
// load, fetch, dedup, gate, admit, persist, digest.
// It is the only component that decides whether a failure ends the run.
type PipelineOrchestrator struct {
	settings domain.Settings
	sources  driven.SourceRegistry
	history  *HistoryService
	gate     *Gate
	digest   *DigestGenerator
	runLog   driven.RunLogStore

	now      func() time.Time
	courtesy *throttle

	mu      sync.Mutex
	running bool
}

// NewPipelineOrchestrator creates an orchestrator.
// digest and runLog are optional; when nil, the stage is skipped.
func NewPipelineOrchestrator(
	settings domain.Settings,
	sources driven.SourceRegistry,
	history *HistoryService,
	gate *Gate,
	digest *DigestGenerator,
	runLog driven.RunLogStore,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		settings: settings,
		sources:  sources,
		history:  history,
		gate:     gate,
		digest:   digest,
		runLog:   runLog,
		now:      time.Now,
		courtesy: newThrottle(settings.Sources.CourtesyDelay),
	}
}

// SetClock replaces the clock used for run timestamps.
func (o *PipelineOrchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Run executes one full pass.
// The returned error is non-nil only for invalid settings, a run already in
// progress, an unreadable history, cancellation before persist, or a failure
// wrapping domain.ErrPersist. In the last three cases nothing is written.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *PipelineOrchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	if !o.begin() {
		return nil, domain.ErrRunInProgress
	}
	defer o.end()

	report := &domain.RunReport{
		ID:        uuid.NewString(),
		StartedAt: o.now(),
	}
	logger.Section("Run " + report.ID)

	if err := o.settings.Validate(); err != nil {
		report.Error = err.Error()
		report.EndedAt = o.now()
		return report, fmt.Errorf("invalid settings: %w", err)
	}

	// 1. Load history and the seen set
	history, err := o.history.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrStoreCorrupt):
		logger.Warn("History malformed, starting empty: %v", err)
	case err != nil:
		logger.Error("Load history: %v", err)
		report.Error = err.Error()
		o.finish(ctx, report)
		return report, err
	}
	logger.Info("Loaded %d stored items", history.Len())

	// 2-3. Fetch, dedup, gate, admit
	var today []domain.StoredItem
	judged := make(map[string]struct{})
	for _, src := range o.settings.Sources.Sources {
		if ctx.Err() != nil {
			break
		}
		if err := o.courtesy.Wait(ctx); err != nil {
			logger.Warn("Courtesy delay interrupted: %v", err)
			continue
		}

		candidates := o.fetch(ctx, src, report)
		o.courtesy.Done()
		for _, c := range candidates {
			if ctx.Err() != nil {
				break
			}
			if c.Title == "" || history.Seen(c.Title) {
				continue
			}
			if _, done := judged[c.Title]; done {
				continue
			}
			judged[c.Title] = struct{}{}
			report.Novel++

			c = c.Reclassify(o.settings.Sources.PaperTag)
			if item, ok := o.judge(ctx, c, report); ok {
				if err := history.Admit(item); err != nil {
					logger.Warn("Admit %q: %v", c.Title, err)
					continue
				}
				today = append(today, item)
				report.Admitted++
			}
		}
	}

	// Termination before persist discards the run's work.
	if err := ctx.Err(); err != nil {
		logger.Warn("Run interrupted, nothing persisted: %v", err)
		report.Error = "run cancelled before persist: " + err.Error()
		o.finish(ctx, report)
		return report, fmt.Errorf("run cancelled before persist: %w", err)
	}

	// 4. Persist unconditionally
	before := history.Len()
	if err := o.history.Persist(ctx, history, o.settings.History.Capacity); err != nil {
		logger.Error("Persist history: %v", err)
		report.Error = err.Error()
		o.finish(ctx, report)
		return report, err
	}
	report.HistorySize = history.Len()
	report.Evicted = before - history.Len()
	logger.Info("Persisted %d items (%d admitted, %d evicted)", report.HistorySize, report.Admitted, report.Evicted)

	// 5. Digest
	o.publishDigest(ctx, today, history, report)

	o.finish(ctx, report)
	return report, nil
}

// Runs returns recent run reports from the ledger.
func (o *PipelineOrchestrator) Runs(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if o.runLog == nil {
		return []domain.RunReport{}, nil
	}
	return o.runLog.List(ctx, limit)
}

// fetch pulls candidates from one source. Failures are logged and yield nothing.
func (o *PipelineOrchestrator) fetch(
	ctx context.Context,
	src domain.SourceDescriptor,
	report *domain.RunReport,
) []domain.CandidateItem {
	if src.FreshnessDays == 0 {
		src.FreshnessDays = o.settings.Sources.FreshnessDays
	}

	adapter, err := o.sources.Adapter(src.Kind)
	if err != nil {
		logger.Warn("Source %s: %v", src.Tag, err)
		report.FailedSources = append(report.FailedSources, src.Tag)
		return nil
	}

	candidates, err := adapter.Fetch(ctx, src)
	if err != nil {
		logger.Warn("Source %s yielded nothing: %v", src.Tag, err)
		report.FailedSources = append(report.FailedSources, src.Tag)
		return nil
	}

	logger.Info("Source %s: %d candidates", src.Tag, len(candidates))
	report.Fetched += len(candidates)
	return candidates
}

// judge submits c to the gate and returns the item to store, if any.
func (o *PipelineOrchestrator) judge(
	ctx context.Context,
	c domain.CandidateItem,
	report *domain.RunReport,
) (domain.StoredItem, bool) {
	v := o.gate.Judge(ctx, c)

	switch v.Kind {
	case domain.VerdictRejected:
		logger.Debug("Rejected: %s", c.Title)
		report.Rejected++
		return domain.StoredItem{}, false
	case domain.VerdictSkipped:
		logger.Warn("Skipped %q: %v", c.Title, v.Err)
		report.Skipped++
		return domain.StoredItem{}, false
	}

	if v.Degraded {
		report.Degraded++
		if !errors.Is(v.Err, domain.ErrLLMUnavailable) {
			logger.Warn("Placeholder summary for %q: %v", c.Title, v.Err)
		}
	}
	logger.Debug("Accepted: %s", c.Title)
	return domain.NewStoredItem(c, v.Summary), true
}

// publishDigest writes the digest. Failures never affect the run outcome.
func (o *PipelineOrchestrator) publishDigest(
	ctx context.Context,
	today []domain.StoredItem,
	history *domain.History,
	report *domain.RunReport,
) {
	if o.digest == nil {
		return
	}

	recent := history.Recent(o.settings.Digest.FallbackWindow)
	digest, err := o.digest.Publish(ctx, today, recent)
	switch {
	case err == nil:
		report.DigestWritten = true
		logger.Info("Digest written for %s", digest.Date)
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrNothingToDigest):
		report.DigestError = err.Error()
		logger.Info("Digest skipped: %v", err)
	default:
		report.DigestError = err.Error()
		logger.Warn("Digest not written: %v", err)
	}
}

// finish stamps the report and records it in the ledger.
func (o *PipelineOrchestrator) finish(ctx context.Context, report *domain.RunReport) {
	ctx = context.WithoutCancel(ctx)
	report.EndedAt = o.now()
	if o.runLog == nil {
		return
	}
	if err := o.runLog.Record(ctx, report); err != nil {
		logger.Warn("Record run %s: %v", report.ID, err)
		return
	}
	if keep := o.settings.RunLog.Keep; keep > 0 {
		if err := o.runLog.Prune(ctx, keep); err != nil {
			logger.Warn("Prune run ledger: %v", err)
		}
	}
}

func (o *PipelineOrchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return false
	}
	o.running = true
	return true
}

func (o *PipelineOrchestrator) end() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}
