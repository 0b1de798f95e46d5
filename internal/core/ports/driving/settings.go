package driving

import "github.com/custodia-labs/consultsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetRate updates the initial playback rate.
	SetRate(rate float64) error

	// SetVolume updates the initial volume.
	SetVolume(volume float64) error

	// SetStoreBackend updates the library store backend.
	SetStoreBackend(backend domain.StoreBackend) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
