package driving

import "github.com/custodia-labs/postsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, with defaults and environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by key after validating it.
	Set(key, value string) error

	// Keys returns the settable keys.
	Keys() []string
}
