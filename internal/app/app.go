// Package app wires configuration, adapters and services together for the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/radar/internal/adapters/driven/ai"
	"github.com/custodia-labs/radar/internal/adapters/driven/config/file"
	"github.com/custodia-labs/radar/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/radar/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/radar/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/radar/internal/adapters/driving/cli"
	"github.com/custodia-labs/radar/internal/connectors"
	"github.com/custodia-labs/radar/internal/connectors/catalog"
	"github.com/custodia-labs/radar/internal/connectors/feed"
	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
	"github.com/custodia-labs/radar/internal/core/services"
	"github.com/custodia-labs/radar/internal/logger"
)

// DefaultDataDir returns $XDG_DATA_HOME/radar.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "radar")
}

// Bootstrap builds every service the CLI needs from the parsed flags.
// It satisfies cli.Bootstrap.
func Bootstrap(opts cli.Options) (*cli.Services, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	loadDotEnv(".env", filepath.Join(dataDir, ".env"))

	configStore, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	apiKey := lookupCredential(services.CredentialEnv(configStore), os.Getenv)
	settingsService := services.NewSettingsService(configStore, dataDir, apiKey)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	aiServices := ai.Init(&settings.LLM, "", services.DefaultPrompts())
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	stores, err := openStores(context.Background(), settings, opts.DryRun)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	registry := connectors.NewRegistry(
		feed.New(feed.Config{Timeout: settings.Sources.Timeout}),
		catalog.New(catalog.Config{Timeout: settings.Sources.Timeout}),
	)

	return assemble(settingsService, settings, registry, aiServices.LLMService, aiServices.PromptStore, stores, func() {
		stores.close()
		aiServices.Close()
	})
}

// assemble builds the services from already-constructed adapters.
func assemble(
	settingsService *services.SettingsService,
	settings *domain.Settings,
	registry driven.SourceRegistry,
	llm driven.LLMService,
	prompts driven.PromptStore,
	stores *storeSet,
	closeFn func(),
) (*cli.Services, error) {
	gate := services.NewGate(llm, settings.Gate, settings.Sources.PaperTag)
	gate.SetPromptStore(prompts)

	digest := services.NewDigestGenerator(llm, stores.digests, settings.Digest, settings.Gate.Topic)
	digest.SetPromptStore(prompts)

	history := services.NewHistoryService(stores.history, stores.digests)
	pipeline := services.NewPipelineOrchestrator(*settings, registry, history, gate, digest, stores.runLog)

	scheduler, err := services.NewScheduler(settings.Schedule, pipeline)
	if err != nil {
		closeFn()
		return nil, err
	}

	return &cli.Services{
		Settings:  settingsService,
		Pipeline:  pipeline,
		History:   history,
		Scheduler: scheduler,
		Close:     closeFn,
	}, nil
}

// storeSet holds the persistence adapters for one invocation.
type storeSet struct {
	history driven.HistoryStore
	digests driven.DigestStore
	runLog  driven.RunLogStore
	db      *sqlite.Store
}

func (s *storeSet) close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Warn("close run ledger: %v", err)
		}
	}
}

// openStores returns file-backed stores, or memory stores seeded from the
// real history when dryRun is set so nothing on disk changes.
func openStores(ctx context.Context, settings *domain.Settings, dryRun bool) (*storeSet, error) {
	history := jsonfile.NewHistoryStore(settings.History.Path)

	if dryRun {
		snapshot, err := history.Load(ctx)
		if err != nil {
			logger.Warn("dry run starts from an empty history: %v", err)
		}
		var items []domain.StoredItem
		if snapshot != nil {
			items = snapshot.Items()
		}
		return &storeSet{
			history: memory.NewHistoryStore(items),
			digests: memory.NewDigestStore(),
			runLog:  memory.NewRunLogStore(),
		}, nil
	}

	stores := &storeSet{
		history: history,
		digests: jsonfile.NewDigestStore(settings.Digest.Path),
	}

	if settings.RunLog.Enabled {
		db, err := sqlite.NewStore(settings.RunLog.Path)
		if err != nil {
			return nil, fmt.Errorf("open run ledger: %w", err)
		}
		stores.db = db
		stores.runLog = db.RunLogStore()
	}

	return stores, nil
}

// lookupCredential returns the first non-empty value among names.
func lookupCredential(names []string, getenv func(string) string) string {
	for _, name := range names {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// loadDotEnv loads each existing file into the environment without
// overriding variables already set.
func loadDotEnv(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("load %s: %v", path, err)
			continue
		}
		logger.Debug("loaded environment from %s", path)
	}
}
