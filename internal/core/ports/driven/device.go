package driven

import "github.com/custodia-labs/consultsync/internal/core/domain"

// DeviceEventKind identifies a notification from the playback device.
type DeviceEventKind int

// Device notifications, mirroring the media element events the player
// listens to.
const (
	// DeviceTimeUpdate reports the current position during playback.
	DeviceTimeUpdate DeviceEventKind = iota
	// DeviceEnded reports that playback reached the end of the media.
	DeviceEnded
	// DeviceLoadStart reports that the device began loading media.
	DeviceLoadStart
	// DeviceCanPlay reports that enough media is loaded to play.
	DeviceCanPlay
	// DeviceWaiting reports a stall waiting for data.
	DeviceWaiting
	// DevicePlaying reports that playback resumed after a stall or start.
	DevicePlaying
	// DeviceDurationChange reports a new media duration.
	DeviceDurationChange
	// DeviceError reports a decode or I/O failure.
	DeviceError
)

// String returns the string representation of the event kind.
func (k DeviceEventKind) String() string {
	switch k {
	case DeviceTimeUpdate:
		return "timeupdate"
	case DeviceEnded:
		return "ended"
	case DeviceLoadStart:
		return "loadstart"
	case DeviceCanPlay:
		return "canplay"
	case DeviceWaiting:
		return "waiting"
	case DevicePlaying:
		return "playing"
	case DeviceDurationChange:
		return "durationchange"
	case DeviceError:
		return "error"
	default:
		return "unknown"
	}
}

// DeviceEvent is a single notification from the playback device.
type DeviceEvent struct {
	Kind DeviceEventKind

	// Position is the device position in seconds at the time of the event.
	Position float64

	// Duration is set for DeviceDurationChange.
	Duration float64

	// Err is set for DeviceError.
	Err error

	// Seq is the number of Seek calls the device had applied when it
	// produced the event. Position reports carrying an older Seq predate the
	// latest seek and are stale.
	Seq uint64
}

// PlaybackDevice is the external audio device. It has no notion of a
// bounded play; the clock builds range-play on top of time updates.
//
// Commands are fire-and-forget and must not block. Notifications are
// delivered to the listener one at a time, never concurrently, and never
// from inside a command call.
type PlaybackDevice interface {
	// Position returns the current position in seconds.
	Position() float64

	// Duration returns the media duration in seconds, or 0 if unknown.
	Duration() float64

	// Seek moves the position. The caller has already clamped t.
	Seek(t float64)

	// Play starts playback. An error means the device refused and stays paused.
	Play() error

	// Pause stops playback.
	Pause()

	// SetRate sets the playback rate.
	SetRate(rate float64)

	// SetVolume sets the output volume in [0, 1].
	SetVolume(volume float64)

	// Subscribe registers the listener for device notifications.
	// The returned function releases the subscription and is safe to call
	// more than once.
	Subscribe(listener func(DeviceEvent)) (unsubscribe func())
}

// DeviceFactory creates a playback device for a recording.
type DeviceFactory func(rec *domain.Recording) (PlaybackDevice, error)
