package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	report     *domain.RunReport
	err        error
	runs       []domain.RunReport
	limit      int
	backfilled bool
}

func (m *mockPipeline) Run(_ context.Context) (*domain.RunReport, error) {
	return m.report, m.err
}

func (m *mockPipeline) Backfill(_ context.Context) (*domain.RunReport, error) {
	m.backfilled = true
	return m.report, m.err
}

func (m *mockPipeline) Runs(_ context.Context, limit int) ([]domain.RunReport, error) {
	m.limit = limit
	return m.runs, nil
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	items  []domain.StoredItem
	query  driving.HistoryQuery
	digest *domain.Digest
}

func (m *mockHistoryService) Load(_ context.Context) (*domain.History, error) {
	return domain.NewHistory(m.items), nil
}

func (m *mockHistoryService) Persist(_ context.Context, _ *domain.History, _ int) error {
	return nil
}

func (m *mockHistoryService) List(_ context.Context, query driving.HistoryQuery) ([]domain.StoredItem, error) {
	m.query = query
	return m.items, nil
}

func (m *mockHistoryService) LatestDigest(_ context.Context) (*domain.Digest, error) {
	if m.digest == nil {
		return nil, domain.ErrNotFound
	}
	return m.digest, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	set      map[string]string
	setErr   error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Validate() error { return m.settings.Validate() }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) SettableKeys() []string {
	return []string{"gate.mode", "history.capacity"}
}

func (m *mockSettingsService) ConfigPath() string { return "/etc/radar/config.toml" }

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	startErr error
	stopped  bool
}

func (m *mockScheduler) Start(_ context.Context) error { return m.startErr }

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

// setupServices installs mocks and returns a cleanup function.
func setupServices(p driving.Pipeline, h driving.HistoryService, s driving.SettingsService, sch driving.Scheduler) func() {
	oldP, oldH, oldS, oldSch, oldB := pipeline, historyService, settingsService, scheduler, bootstrap
	pipeline, historyService, settingsService, scheduler, bootstrap = p, h, s, sch, nil
	return func() {
		pipeline, historyService, settingsService, scheduler, bootstrap = oldP, oldH, oldS, oldSch, oldB
	}
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleReport() *domain.RunReport {
	start := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		ID:            "run-1",
		StartedAt:     start,
		EndedAt:       start.Add(1500 * time.Millisecond),
		Fetched:       13,
		Novel:         5,
		Admitted:      4,
		Degraded:      1,
		Rejected:      1,
		HistorySize:   120,
		FailedSources: []string{"EN·Auto"},
		DigestWritten: true,
	}
}

var errBoom = errors.New("boom")
