package driving

import "github.com/custodia-labs/radar/internal/core/domain"

// SettingsService assembles application settings from configuration.
type SettingsService interface {
	// Get retrieves current application settings with defaults applied.
	Get() (*domain.Settings, error)

	// Validate checks the current settings can drive a run.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Set validates and persists a single scalar setting.
	// Unknown keys and malformed values return domain.ErrInvalidInput.
	Set(key, value string) error

	// SettableKeys returns the keys Set accepts, sorted.
	SettableKeys() []string

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
