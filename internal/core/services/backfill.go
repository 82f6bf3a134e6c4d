package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/logger"
)

// Backfill seeds the history from the archive sources in one pass.
// Novel items are gated like a run but appended at the tail; the history is
// then ordered by date before the capped persist. Undated items get the
// configured fallback date. No digest is written.
//
// Backfill shares the run lock, so it never overlaps Run.
func (o *PipelineOrchestrator) Backfill(ctx context.Context) (*domain.RunReport, error) {
	if !o.begin() {
		return nil, domain.ErrRunInProgress
	}
	defer o.end()

	report := &domain.RunReport{
		ID:          uuid.NewString(),
		StartedAt:   o.now(),
		DigestError: "backfill writes no digest",
	}
	logger.Section("Backfill " + report.ID)

	if err := o.settings.ValidateBackfill(); err != nil {
		report.Error = err.Error()
		report.EndedAt = o.now()
		return report, fmt.Errorf("invalid settings: %w", err)
	}

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

	fallback := o.settings.Backfill.FallbackDate
	for _, src := range o.settings.Backfill.Sources {
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
			report.Novel++

			c = c.Reclassify(o.settings.Sources.PaperTag)
			item, ok := o.judge(ctx, c, report)
			if !ok {
				continue
			}
			if c.Undated {
				item.Date = fallback
			}
			if err := history.Append(item); err != nil {
				logger.Warn("Append %q: %v", c.Title, err)
				continue
			}
			report.Admitted++
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("Backfill interrupted, nothing persisted: %v", err)
		report.Error = "backfill cancelled before persist: " + err.Error()
		o.finish(ctx, report)
		return report, fmt.Errorf("backfill cancelled before persist: %w", err)
	}

	history.SortByDate()

	before := history.Len()
	if err := o.history.Persist(ctx, history, o.settings.History.Capacity); err != nil {
		logger.Error("Persist history: %v", err)
		report.Error = err.Error()
		o.finish(ctx, report)
		return report, err
	}
	report.HistorySize = history.Len()
	report.Evicted = before - history.Len()
	logger.Info("Backfill persisted %d items (%d added, %d evicted)", report.HistorySize, report.Admitted, report.Evicted)

	o.finish(ctx, report)
	return report, nil
}
