package driving

import "github.com/custodia-labs/court-case-fetcher/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Set parses value for a known key, validates the result and persists it.
	Set(key, value string) error

	// Keys returns the settable keys.
	Keys() []string

	// GetDefaults returns default settings for the configured profile.
	GetDefaults() domain.AppSettings

	// Path returns where settings are persisted.
	Path() string
}
