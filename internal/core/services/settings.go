package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHistoryPath       = "history.path"
	keyHistoryCapacity   = "history.capacity"
	keyDigestPath        = "digest.path"
	keyDigestWindow      = "digest.fallback_window"
	keyDigestMaxChars    = "digest.max_chars"
	keyDigestTimeout     = "digest.timeout"
	keyGateMode          = "gate.mode"
	keyGatePolicy        = "gate.failure_policy"
	keyGatePlaceholder   = "gate.placeholder"
	keyGateSentinel      = "gate.reject_sentinel"
	keyGateDelay         = "gate.delay"
	keyGateTimeout       = "gate.timeout"
	keyGateTopic         = "gate.topic"
	keySourcesTimeout    = "sources.timeout"
	keySourcesCourtesy   = "sources.courtesy_delay"
	keyCatalogFreshness  = "catalog.freshness_days"
	keyPaperTag          = "paper_tag"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKeyEnv      = "llm.api_key_env"
	keyScheduleCron      = "schedule.cron"
	keyScheduleOnStart   = "schedule.run_on_start"
	keyRunLogEnabled     = "runlog.enabled"
	keyRunLogPath        = "runlog.path"
	keyRunLogKeep        = "runlog.keep"
	keySources           = "sources"
	keyBackfillSources   = "backfill.sources"
	keyBackfillFallback  = "backfill.fallback_date"
	sourceFieldTag       = "tag"
	sourceFieldKind      = "kind"
	sourceFieldQuery     = "query"
	sourceFieldLanguage  = "language"
	sourceFieldURL       = "url"
	sourceFieldLimit     = "limit"
	sourceFieldCategory  = "category"
	sourceFieldFreshness = "freshness_days"
)

// Default environment variables holding the model credential, in lookup order.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
var defaultCredentialEnv = []string{"RADAR_API_KEY", "DEEPSEEK_API_KEY"}

// CredentialEnv returns the environment variables to read the model
// credential from, in lookup order. llm.api_key_env overrides the defaults.
func CredentialEnv(configStore driven.ConfigStore) []string {
	if name := strings.TrimSpace(configStore.GetString(keyLLMAPIKeyEnv)); name != "" {
		return []string{name}
	}
	return append([]string(nil), defaultCredentialEnv...)
}

// SettingsService assembles domain.Settings from the config store.
// Relative file paths are resolved against the data directory.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
	apiKey      string
}

// NewSettingsService creates a new settings service.
// apiKey is the model credential read from the environment at startup;
// empty means unconfigured.
func NewSettingsService(configStore driven.ConfigStore, dataDir, apiKey string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
		apiKey:      apiKey,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	sources, err := s.getSources(keySources)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = domain.DefaultSources()
	}

	backfillSources, err := s.getSources(keyBackfillSources)
	if err != nil {
		return nil, err
	}
	if backfillSources == nil {
		backfillSources = defaults.Backfill.Sources
	}

	provider := s.getProvider(defaults.LLM.Provider)
	model := s.getString(keyLLMModel, "")
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	settings := &domain.Settings{
		Sources: domain.SourceSettings{
			Sources:       sources,
			Timeout:       s.getDuration(keySourcesTimeout, defaults.Sources.Timeout),
			CourtesyDelay: s.getDuration(keySourcesCourtesy, defaults.Sources.CourtesyDelay),
			FreshnessDays: s.getInt(keyCatalogFreshness, defaults.Sources.FreshnessDays),
			PaperTag:      s.getString(keyPaperTag, defaults.Sources.PaperTag),
		},
		Gate: domain.GateSettings{
			Mode:           domain.FilterMode(s.getString(keyGateMode, defaults.Gate.Mode.String())),
			FailurePolicy:  domain.FailurePolicy(s.getString(keyGatePolicy, defaults.Gate.FailurePolicy.String())),
			Placeholder:    s.getString(keyGatePlaceholder, defaults.Gate.Placeholder),
			RejectSentinel: s.getString(keyGateSentinel, defaults.Gate.RejectSentinel),
			Topic:          s.getString(keyGateTopic, defaults.Gate.Topic),
			Delay:          s.getDuration(keyGateDelay, defaults.Gate.Delay),
			Timeout:        s.getDuration(keyGateTimeout, defaults.Gate.Timeout),
		},
		Digest: domain.DigestSettings{
			Path:           s.resolve(s.getString(keyDigestPath, defaults.Digest.Path)),
			FallbackWindow: s.getInt(keyDigestWindow, defaults.Digest.FallbackWindow),
			MaxChars:       s.getInt(keyDigestMaxChars, defaults.Digest.MaxChars),
			Timeout:        s.getDuration(keyDigestTimeout, defaults.Digest.Timeout),
		},
		History: domain.HistorySettings{
			Path:     s.resolve(s.getString(keyHistoryPath, defaults.History.Path)),
			Capacity: s.getInt(keyHistoryCapacity, defaults.History.Capacity),
		},
		LLM: domain.LLMSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty uses the provider endpoint
			APIKey:   s.apiKey,
		},
		RunLog: domain.RunLogSettings{
			Enabled: s.getBool(keyRunLogEnabled, defaults.RunLog.Enabled),
			Path:    s.resolve(s.getString(keyRunLogPath, defaults.RunLog.Path)),
			Keep:    s.getInt(keyRunLogKeep, defaults.RunLog.Keep),
		},
		Schedule: domain.ScheduleSettings{
			Cron:       s.getString(keyScheduleCron, defaults.Schedule.Cron),
			RunOnStart: s.getBool(keyScheduleOnStart, defaults.Schedule.RunOnStart),
		},
		Backfill: domain.BackfillSettings{
			Sources:      backfillSources,
			FallbackDate: s.getString(keyBackfillFallback, defaults.Backfill.FallbackDate),
		},
	}

	return settings, nil
}

// Validate checks the current settings can drive a run.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// valueKind describes how a settable key is parsed and validated.
type valueKind int

const (
	kindString valueKind = iota
	kindPositiveInt
	kindBool
	kindDuration
	kindGateMode
	kindFailurePolicy
	kindProvider
	kindCron
	kindDate
)

// settableKeys lists the scalar keys Set accepts. Source tables are edited in the file.
var settableKeys = map[string]valueKind{
	keyHistoryPath:      kindString,
	keyHistoryCapacity:  kindPositiveInt,
	keyDigestPath:       kindString,
	keyDigestWindow:     kindPositiveInt,
	keyDigestMaxChars:   kindPositiveInt,
	keyDigestTimeout:    kindDuration,
	keyGateMode:         kindGateMode,
	keyGatePolicy:       kindFailurePolicy,
	keyGatePlaceholder:  kindString,
	keyGateSentinel:     kindString,
	keyGateDelay:        kindDuration,
	keyGateTimeout:      kindDuration,
	keyGateTopic:        kindString,
	keySourcesTimeout:   kindDuration,
	keySourcesCourtesy:  kindDuration,
	keyCatalogFreshness: kindPositiveInt,
	keyPaperTag:         kindString,
	keyLLMProvider:      kindProvider,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKeyEnv:     kindString,
	keyScheduleCron:     kindCron,
	keyScheduleOnStart:  kindBool,
	keyRunLogEnabled:    kindBool,
	keyRunLogPath:       kindString,
	keyRunLogKeep:       kindPositiveInt,
	keyBackfillFallback: kindDate,
}

// SettableKeys returns the keys accepted by Set, sorted.
func (s *SettingsService) SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates raw for key and persists it to the config store.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value, err := parseSetting(kind, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func parseSetting(kind valueKind, raw string) (any, error) {
	switch kind {
	case kindPositiveInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%q is not a positive integer", raw)
		}
		return n, nil
	case kindBool:
		return strconv.ParseBool(raw)
	case kindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%q is not a duration such as 500ms or 20s", raw)
		}
		return raw, nil
	case kindGateMode:
		if !domain.FilterMode(raw).IsValid() {
			return nil, fmt.Errorf("%q (valid: always_summarize, ai_gatekept)", raw)
		}
		return raw, nil
	case kindFailurePolicy:
		if !domain.FailurePolicy(raw).IsValid() {
			return nil, fmt.Errorf("%q (valid: placeholder, skip)", raw)
		}
		return raw, nil
	case kindProvider:
		if !domain.AIProvider(raw).IsValid() {
			return nil, fmt.Errorf("%q (valid: openai, anthropic)", raw)
		}
		return raw, nil
	case kindCron:
		if _, err := ParseSchedule(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case kindDate:
		if _, err := time.Parse(domain.DateLayout, raw); err != nil {
			return nil, fmt.Errorf("%q is not a date such as 2024-01-01", raw)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// getSources parses an array of source tables such as [[sources]].
// Returns nil when none is configured.
func (s *SettingsService) getSources(key string) ([]domain.SourceDescriptor, error) {
	tables := s.configStore.GetTables(key)
	if tables == nil {
		return nil, nil
	}

	sources := make([]domain.SourceDescriptor, 0, len(tables))
	for i, t := range tables {
		src := domain.SourceDescriptor{
			Tag:           tableString(t, sourceFieldTag),
			Kind:          domain.SourceKind(strings.ToLower(tableString(t, sourceFieldKind))),
			Query:         tableString(t, sourceFieldQuery),
			Language:      domain.Language(strings.ToUpper(tableString(t, sourceFieldLanguage))),
			URL:           tableString(t, sourceFieldURL),
			Limit:         tableInt(t, sourceFieldLimit),
			Category:      tableString(t, sourceFieldCategory),
			FreshnessDays: tableInt(t, sourceFieldFreshness),
		}
		if src.Kind == "" {
			src.Kind = domain.SourceKindFeed
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// resolve joins a relative path onto the data directory.
func (s *SettingsService) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dataDir == "" {
		return path
	}
	return filepath.Join(s.dataDir, path)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration reads a duration string such as "500ms" or "20s".
// Unparseable values fall back to the default.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyLLMProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func tableString(t map[string]any, key string) string {
	str, _ := t[key].(string)
	return strings.TrimSpace(str)
}

func tableInt(t map[string]any, key string) int {
	// TOML integers are parsed as int64
	switch v := t[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
