package domain

import (
	"fmt"
	"math"
	"time"
)

const unknownDescription = "Unknown"

// StoreBackend selects where the recording library is persisted.
type StoreBackend string

// Available store backends.
const (
	// StoreSQLite persists the library in a local SQLite database.
	StoreSQLite StoreBackend = "sqlite"

	// StoreMemory keeps the library in memory for the process lifetime.
	StoreMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreSQLite, StoreMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreSQLite:
		return "SQLite (persistent library)"
	case StoreMemory:
		return "Memory (discarded on exit)"
	default:
		return unknownDescription
	}
}

// PlayerSettings holds playback behaviour configuration.
type PlayerSettings struct {
	// Rate is the initial playback rate.
	Rate float64

	// Volume is the initial volume in [0, 1].
	Volume float64

	// TickInterval is how often the simulated device reports its position.
	TickInterval time.Duration

	// WaveformBars is the number of bars drawn on the timeline.
	WaveformBars int
}

// MaxTickInterval is the coarsest position report the player accepts. A
// range stops on the first report at or past its end, so at MaxRate one
// tick must cover less than RangePad of media time.
const MaxTickInterval = 120 * time.Millisecond

// Validate reports the first out-of-range player setting.
func (p PlayerSettings) Validate() error {
	switch {
	case math.IsNaN(p.Rate) || p.Rate < MinRate || p.Rate > MaxRate:
		return fmt.Errorf("playback rate %v must be between %v and %v: %w", p.Rate, MinRate, MaxRate, ErrInvalidInput)
	case math.IsNaN(p.Volume) || p.Volume < 0 || p.Volume > 1:
		return fmt.Errorf("volume %v must be between 0 and 1: %w", p.Volume, ErrInvalidInput)
	case p.TickInterval < time.Millisecond || p.TickInterval > MaxTickInterval:
		return fmt.Errorf("tick %v must be between 1ms and %v: %w", p.TickInterval, MaxTickInterval, ErrInvalidInput)
	case p.WaveformBars <= 0:
		return fmt.Errorf("waveform bars %d must be positive: %w", p.WaveformBars, ErrInvalidInput)
	}
	return nil
}

// StorageSettings holds library persistence configuration.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// DataDir is where the SQLite database lives.
	// Empty means the default under the user's home directory.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Player  PlayerSettings
	Storage StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Player: PlayerSettings{
			Rate:         DefaultRate,
			Volume:       DefaultVolume,
			TickInterval: 50 * time.Millisecond, // well inside RangePad
			WaveformBars: 120,
		},
		Storage: StorageSettings{
			Backend: StoreSQLite,
		},
	}
}

// AllStoreBackends returns all available store backends.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreSQLite, StoreMemory}
}
