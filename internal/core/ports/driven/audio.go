package driven

import "context"

// AudioInfo describes an audio asset.
type AudioInfo struct {
	// Format is the detected container, e.g. "wav" or "mp3".
	Format string

	// ContentType is the MIME type.
	ContentType string

	// Title is the embedded title tag, if any.
	Title string

	// Duration is the decoded length in seconds, or 0 if unknown.
	Duration float64
}

// AudioProbe inspects audio files.
type AudioProbe interface {
	// Probe reads format, tags and, where the format allows, duration.
	Probe(ctx context.Context, path string) (*AudioInfo, error)

	// Peaks returns bars normalised amplitude peaks in [0, 1].
	// Returns an error wrapping domain.ErrUnsupportedFormat when the format
	// cannot be decoded.
	Peaks(ctx context.Context, path string, bars int) ([]float64, error)
}
