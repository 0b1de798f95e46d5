package services

import (
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyPlayerRate     = "player.rate"
	keyPlayerVolume   = "player.volume"
	keyPlayerTickMS   = "player.tick_ms"
	keyWaveformBars   = "player.waveform_bars"
	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Player: domain.PlayerSettings{
			Rate:         s.getFloat(keyPlayerRate, defaults.Player.Rate, domain.MinRate, domain.MaxRate),
			Volume:       s.getVolume(defaults.Player.Volume),
			TickInterval: s.getTickInterval(defaults.Player.TickInterval),
			WaveformBars: s.getInt(keyWaveformBars, defaults.Player.WaveformBars),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStoreBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}

	return settings, nil
}

// Save persists application settings. Out-of-range player settings are
// rejected with domain.ErrInvalidInput and nothing is written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Player.Validate(); err != nil {
		return err
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid store backend %q: %w", settings.Storage.Backend, domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(keyPlayerRate, settings.Player.Rate); err != nil {
		return fmt.Errorf("save player rate: %w", err)
	}
	if err := s.configStore.Set(keyPlayerVolume, settings.Player.Volume); err != nil {
		return fmt.Errorf("save player volume: %w", err)
	}
	if err := s.configStore.Set(keyPlayerTickMS, int(settings.Player.TickInterval/time.Millisecond)); err != nil {
		return fmt.Errorf("save player tick: %w", err)
	}
	if err := s.configStore.Set(keyWaveformBars, settings.Player.WaveformBars); err != nil {
		return fmt.Errorf("save waveform bars: %w", err)
	}

	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if settings.Storage.DataDir != "" {
		if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save storage data_dir: %w", err)
		}
	}

	return nil
}

// SetRate updates the initial playback rate.
func (s *SettingsService) SetRate(rate float64) error {
	if math.IsNaN(rate) || rate < domain.MinRate || rate > domain.MaxRate {
		return fmt.Errorf("invalid playback rate %v: must be between %v and %v: %w",
			rate, domain.MinRate, domain.MaxRate, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Player.Rate = rate
	return s.Save(settings)
}

// SetVolume updates the initial volume.
func (s *SettingsService) SetVolume(volume float64) error {
	if math.IsNaN(volume) || volume < 0 || volume > 1 {
		return fmt.Errorf("invalid volume %v: must be between 0 and 1: %w", volume, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Player.Volume = volume
	return s.Save(settings)
}

// SetStoreBackend updates the library store backend.
func (s *SettingsService) SetStoreBackend(backend domain.StoreBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid store backend %q: %w", backend, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Backend = backend
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal, lo, hi float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 || math.IsNaN(val) {
		return defaultVal
	}
	return domain.Clamp(val, lo, hi)
}

// getVolume distinguishes an explicit 0 (muted) from an unset key.
func (s *SettingsService) getVolume(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(keyPlayerVolume); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(keyPlayerVolume)
	if math.IsNaN(val) {
		return defaultVal
	}
	return domain.Clamp(val, 0, 1)
}

// getTickInterval caps hand-edited values at domain.MaxTickInterval.
func (s *SettingsService) getTickInterval(defaultVal time.Duration) time.Duration {
	ms := s.configStore.GetInt(keyPlayerTickMS)
	if ms <= 0 {
		return defaultVal
	}
	return min(time.Duration(ms)*time.Millisecond, domain.MaxTickInterval)
}

func (s *SettingsService) getStoreBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StoreBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
