package driven

// ConfigStore holds application settings as flat dotted keys such as
// "player.rate". Implementations decide whether and where values persist.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when missing or not a string.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when missing or not an integer.
	GetInt(key string) int

	// GetFloat returns the value as a float64. Integers are widened; anything
	// else reads as 0.
	GetFloat(key string) float64

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Save writes all values to the backing storage.
	Save() error

	// Load replaces the in-memory values with the stored ones.
	Load() error

	// Path names the backing storage, for diagnostics.
	Path() string
}
