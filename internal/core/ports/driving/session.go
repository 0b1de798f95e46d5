package driving

import (
	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// RangePlay is a handle on one bounded range-play episode.
type RangePlay interface {
	// Start and End are the clamped bounds of the range.
	Start() float64
	End() float64

	// Done is closed exactly once, when the range stops at its end or is
	// superseded by a later command.
	Done() <-chan struct{}

	// Completed reports whether the range stopped at its end.
	// Only meaningful after Done is closed.
	Completed() bool

	// StoppedAt is the position at which the scheduled stop fired.
	StoppedAt() float64
}

// PlaybackSession is the synchronisation engine for one open recording.
// It owns the playback position; view adapters read the published
// PlaybackState and issue commands.
type PlaybackSession interface {
	// ID identifies the session.
	ID() string

	// Recording returns the recording the session plays.
	Recording() *domain.Recording

	// Insights returns the summary points grouped by category.
	Insights() []domain.InsightGroup

	// State returns the current read model.
	State() domain.PlaybackState

	// Subscribe returns a channel receiving the latest state after every
	// change. Slow readers only ever see the most recent state. The cancel
	// function closes the channel.
	Subscribe() (<-chan domain.PlaybackState, func())

	// Seek moves to t, clamped to [0, duration].
	Seek(t float64)

	// PlayRange plays [start, end] and pauses at end.
	PlayRange(start, end float64) (RangePlay, error)

	// Play starts playback.
	// Returns an error wrapping domain.ErrPlaybackRejected if the device refuses.
	Play() error

	// Pause stops playback.
	Pause()

	// TogglePlayPause flips between playing and paused.
	TogglePlayPause() error

	// Skip moves by delta seconds, clamped to [0, duration].
	Skip(delta float64)

	// SetRate sets the playback rate, clamped to [MinRate, MaxRate].
	SetRate(rate float64)

	// SetVolume sets the volume, clamped to [0, 1].
	SetVolume(volume float64)

	// SelectSegment seeks to the segment and highlights it alone.
	// Returns domain.ErrNotFound for an unknown segment.
	SelectSegment(id string) error

	// SelectSummaryPoint highlights the point's evidence and seeks to it.
	// Returns domain.ErrNotFound for an unknown point.
	SelectSummaryPoint(id string) error

	// SelectTimeline seeks to the normalised position p, clamped to [0, 1].
	SelectTimeline(p float64)

	// PlaySegment selects the segment and range-plays it.
	PlaySegment(id string) (RangePlay, error)

	// AuditionSummaryPoint selects the point and range-plays each cited
	// segment in turn. The returned handle covers the first segment.
	AuditionSummaryPoint(id string) (RangePlay, error)

	// Close releases the device subscription and closes subscriber channels.
	Close() error
}

// SessionFactory opens playback sessions.
type SessionFactory interface {
	// Open creates a session for the recording.
	Open(rec *domain.Recording) (PlaybackSession, error)
}
