package domain

import "math"

// Playback limits. Out-of-range commands are clamped to these, never rejected.
const (
	// MinRate is the slowest supported playback rate.
	MinRate = 0.25

	// MaxRate is the fastest supported playback rate.
	MaxRate = 4.0

	// DefaultRate is normal speed.
	DefaultRate = 1.0

	// DefaultVolume matches the player's initial slider position.
	DefaultVolume = 0.8

	// SkipSeconds is the fixed skip-forward/back offset.
	SkipSeconds = 10.0

	// RangePad is how far past a range end a scheduled stop may land.
	RangePad = 0.5
)

// PlaybackRates are the rates offered by the speed menu.
var PlaybackRates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// NoWord marks the absence of an active word.
const NoWord = -1

// Highlight is the derived highlight state. It is recomputed from the
// playback position and the last selection and never persisted.
type Highlight struct {
	// ActiveWordIndex indexes Recording.Words, or NoWord.
	ActiveWordIndex int

	// ActiveSegmentID is the segment currently emphasised, or empty.
	ActiveSegmentID string

	// HighlightedSegmentIDs is the ordered highlight set.
	HighlightedSegmentIDs []string

	// ActiveSummaryPointID is the selected insight, or empty.
	ActiveSummaryPointID string
}

// HasActiveWord returns true if a word is active.
func (h Highlight) HasActiveWord() bool {
	return h.ActiveWordIndex != NoWord
}

// IsHighlighted returns true if the segment is in the highlight set.
func (h Highlight) IsHighlighted(segmentID string) bool {
	for _, id := range h.HighlightedSegmentIDs {
		if id == segmentID {
			return true
		}
	}
	return false
}

// PlaybackState is the read model published to view adapters.
type PlaybackState struct {
	CurrentTime float64
	Duration    float64
	IsPlaying   bool
	IsBuffering bool
	Rate        float64
	Volume      float64

	// RangeActive is true while a bounded range-play is running.
	RangeActive bool

	// LastError is the last recoverable device failure, if any.
	LastError error

	Highlight
}

// Progress returns the normalised playback position in [0, 1].
func (s PlaybackState) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return Clamp(s.CurrentTime/s.Duration, 0, 1)
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
