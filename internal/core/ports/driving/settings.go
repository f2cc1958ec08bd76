package driving

import "github.com/custodia-labs/promptcorpus/internal/core/domain"

// SettingsService resolves and updates application settings.
type SettingsService interface {
	// Storage returns the resolved backing directories.
	Storage() domain.StorageSettings

	// Set updates a single configuration key and persists it.
	Set(key, value string) error

	// All returns every explicitly configured key and its value.
	All() map[string]any

	// ConfigPath returns the configuration file location.
	ConfigPath() string
}
