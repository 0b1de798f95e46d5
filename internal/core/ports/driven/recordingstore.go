package driven

import (
	"context"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// RecordingStore persists the recording library.
type RecordingStore interface {
	// Save stores or replaces a recording with all of its children.
	Save(ctx context.Context, rec *domain.Recording) error

	// Get retrieves a recording by ID.
	// Returns domain.ErrNotFound if the recording does not exist.
	Get(ctx context.Context, id string) (*domain.Recording, error)

	// List returns summaries of all recordings, newest first.
	List(ctx context.Context) ([]domain.RecordingSummary, error)

	// Delete removes a recording.
	// Returns domain.ErrNotFound if the recording does not exist.
	Delete(ctx context.Context, id string) error
}
