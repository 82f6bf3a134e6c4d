package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// runLogStore implements driven.RunLogStore.
type runLogStore struct {
	store *Store
}

var _ driven.RunLogStore = (*runLogStore)(nil)

// timeLayout is fixed-width so timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// failedSourcesSep joins failed source tags in a single column.
// Tags never contain a newline.
const failedSourcesSep = "\n"

// Record persists a run report, replacing any earlier record with the same ID.
func (s *runLogStore) Record(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, ended_at, fetched, novel, admitted, degraded, rejected, skipped,
			failed_sources, history_size, evicted, digest_written, digest_error, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			fetched = excluded.fetched,
			novel = excluded.novel,
			admitted = excluded.admitted,
			degraded = excluded.degraded,
			rejected = excluded.rejected,
			skipped = excluded.skipped,
			failed_sources = excluded.failed_sources,
			history_size = excluded.history_size,
			evicted = excluded.evicted,
			digest_written = excluded.digest_written,
			digest_error = excluded.digest_error,
			error = excluded.error
	`, report.ID,
		report.StartedAt.UTC().Format(timeLayout),
		formatNullableTime(report.EndedAt),
		report.Fetched, report.Novel, report.Admitted, report.Degraded, report.Rejected, report.Skipped,
		nullString(strings.Join(report.FailedSources, failedSourcesSep)),
		report.HistorySize, report.Evicted,
		boolToInt(report.DigestWritten),
		nullString(report.DigestError),
		nullString(report.Error))

	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns recent reports, most recent first.
func (s *runLogStore) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, fetched, novel, admitted, degraded, rejected, skipped,
			failed_sources, history_size, evicted, digest_written, digest_error, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	reports := []domain.RunReport{}
	for rows.Next() {
		report, err := scanRunReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return reports, nil
}

// Prune keeps the most recent 'keep' reports.
func (s *runLogStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (ORDER BY started_at DESC) as rn
				FROM runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanRunReport scans a run report from *sql.Rows.
func scanRunReport(rows *sql.Rows) (*domain.RunReport, error) {
	var report domain.RunReport
	var startedAt string
	var endedAt, failedSources, digestError, errMsg sql.NullString
	var digestWritten int

	if err := rows.Scan(&report.ID, &startedAt, &endedAt,
		&report.Fetched, &report.Novel, &report.Admitted, &report.Degraded, &report.Rejected, &report.Skipped,
		&failedSources, &report.HistorySize, &report.Evicted,
		&digestWritten, &digestError, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		report.StartedAt = t
	}
	report.EndedAt = parseNullableTime(endedAt)
	if failedSources.Valid && failedSources.String != "" {
		report.FailedSources = strings.Split(failedSources.String, failedSourcesSep)
	}
	report.DigestWritten = digestWritten == 1
	if digestError.Valid {
		report.DigestError = digestError.String
	}
	if errMsg.Valid {
		report.Error = errMsg.String
	}

	return &report, nil
}

// formatNullableTime formats a UTC time with timeLayout, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// parseNullableTime parses a nullable timeLayout string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
