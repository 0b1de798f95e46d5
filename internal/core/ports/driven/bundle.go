package driven

import (
	"context"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// BundleLoader reads a recording bundle (transcript, words, summary and
// audio reference) from disk and normalises it into a Recording.
type BundleLoader interface {
	// Load parses the bundle at path.
	// Returns an error wrapping domain.ErrUnsupportedFormat for unreadable bundles.
	Load(ctx context.Context, path string) (*domain.Recording, error)

	// Accepts reports whether path looks like a bundle this loader reads.
	Accepts(path string) bool
}
