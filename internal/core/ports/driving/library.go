package driving

import (
	"context"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// LibraryService manages the recording library.
type LibraryService interface {
	// Import loads a bundle from disk and stores it.
	// Re-importing a bundle with the same id replaces the stored recording.
	Import(ctx context.Context, path string) (*domain.Recording, error)

	// List returns all recordings.
	List(ctx context.Context) ([]domain.RecordingSummary, error)

	// Get retrieves a recording by ID.
	Get(ctx context.Context, id string) (*domain.Recording, error)

	// Remove deletes a recording.
	Remove(ctx context.Context, id string) error

	// Resolve returns a recording by library id, or loads it directly when
	// ref is a path to a bundle file.
	Resolve(ctx context.Context, ref string) (*domain.Recording, error)

	// Waveform returns bars amplitude values in [0, 1] for the recording.
	Waveform(ctx context.Context, rec *domain.Recording, bars int) []float64
}
