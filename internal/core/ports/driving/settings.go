package driving

import "github.com/custodia-labs/topicchat/internal/core/domain"

// SettingsService resolves and persists application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file and the environment.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single configuration key.
	Set(key, value string) error

	// Validate checks settings for consistency.
	Validate(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns the path of the backing configuration file.
	ConfigPath() string
}
