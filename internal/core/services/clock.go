package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// Ensure RangeEpisode implements the interface.
var _ driving.RangePlay = (*RangeEpisode)(nil)

// RangeEpisode is one bounded range-play episode. Its Done channel closes
// once, when the clock stops it at End or a later command supersedes it.
type RangeEpisode struct {
	start     float64
	end       float64
	episode   uint64
	done      chan struct{}
	finished  bool
	completed bool
	stoppedAt float64
}

func newRangeEpisode(start, end float64, episode uint64) *RangeEpisode {
	return &RangeEpisode{
		start:   start,
		end:     end,
		episode: episode,
		done:    make(chan struct{}),
	}
}

// finish resolves the episode. Only the first call has any effect.
func (r *RangeEpisode) finish(completed bool, at float64) {
	if r.finished {
		return
	}
	r.finished = true
	r.completed = completed
	r.stoppedAt = at
	close(r.done)
}

func (r *RangeEpisode) Start() float64        { return r.start }
func (r *RangeEpisode) End() float64          { return r.end }
func (r *RangeEpisode) Done() <-chan struct{} { return r.done }
func (r *RangeEpisode) Completed() bool       { return r.completed }
func (r *RangeEpisode) StoppedAt() float64    { return r.stoppedAt }

// Clock wraps the playback device and owns the playback position.
//
// Clock is not safe for concurrent use. The session serialises every
// command and every device notification through a single update point.
type Clock struct {
	device driven.PlaybackDevice

	duration  float64
	position  float64
	playing   bool
	buffering bool
	rate      float64
	volume    float64
	lastErr   error

	// seeks counts Seek calls issued to the device; see DeviceEvent.Seq.
	seeks uint64

	// episode increments on every PlayRange; pending is the live episode.
	episode uint64
	pending *RangeEpisode
}

// NewClock creates a clock for the device. The device's own duration wins
// when it reports one; fallbackDuration is used otherwise.
func NewClock(device driven.PlaybackDevice, fallbackDuration float64, settings domain.PlayerSettings) *Clock {
	c := &Clock{
		device:   device,
		duration: fallbackDuration,
		rate:     domain.DefaultRate,
		volume:   domain.DefaultVolume,
	}

	if d := device.Duration(); d > 0 && !math.IsNaN(d) {
		c.duration = d
	}
	if c.duration < 0 || math.IsNaN(c.duration) {
		c.duration = 0
	}

	c.position = domain.Clamp(device.Position(), 0, c.duration)

	// Zero settings mean defaults; an explicit zero volume is kept.
	if settings == (domain.PlayerSettings{}) {
		settings.Rate = domain.DefaultRate
		settings.Volume = domain.DefaultVolume
	}
	if settings.Rate <= 0 {
		settings.Rate = domain.DefaultRate
	}
	c.SetRate(settings.Rate)
	c.SetVolume(settings.Volume)

	return c
}

// Position returns the current playback position.
func (c *Clock) Position() float64 {
	return c.position
}

// Duration returns the media duration.
func (c *Clock) Duration() float64 {
	return c.duration
}

// IsPlaying reports whether the clock believes the device is playing.
func (c *Clock) IsPlaying() bool {
	return c.playing
}

// RangeActive reports whether a range-play episode is pending.
func (c *Clock) RangeActive() bool {
	return c.pending != nil
}

// Seek moves to t clamped to [0, duration] and supersedes any pending range.
// The play state is unchanged. NaN is ignored. Returns the new position.
func (c *Clock) Seek(t float64) float64 {
	if math.IsNaN(t) {
		return c.position
	}
	c.cancelRange()
	return c.seek(t)
}

func (c *Clock) seek(t float64) float64 {
	t = domain.Clamp(t, 0, c.duration)
	c.device.Seek(t)
	c.seeks++
	c.position = t
	logger.Debug("clock: seek %.2f", t)
	return t
}

// Skip moves by delta seconds, clamped to [0, duration].
func (c *Clock) Skip(delta float64) float64 {
	return c.Seek(c.position + delta)
}

// Play starts playback. A rejection leaves the clock paused and is reported
// as a recoverable error; the clock does not retry.
func (c *Clock) Play() error {
	if c.playing {
		return nil
	}
	if c.duration > 0 && c.position >= c.duration {
		c.seek(0)
	}

	if err := c.device.Play(); err != nil {
		c.playing = false
		c.lastErr = fmt.Errorf("%w: %v", domain.ErrPlaybackRejected, err)
		logger.Warn("clock: play rejected: %v", err)
		return c.lastErr
	}

	c.playing = true
	c.lastErr = nil
	return nil
}

// Pause stops playback and supersedes any pending range.
func (c *Clock) Pause() {
	c.cancelRange()
	c.pause()
}

func (c *Clock) pause() {
	c.device.Pause()
	c.playing = false
}

// SetRate sets the playback rate clamped to [MinRate, MaxRate]. NaN is ignored.
func (c *Clock) SetRate(rate float64) {
	if math.IsNaN(rate) {
		return
	}
	c.rate = domain.Clamp(rate, domain.MinRate, domain.MaxRate)
	c.device.SetRate(c.rate)
}

// SetVolume sets the volume clamped to [0, 1]. NaN is ignored.
func (c *Clock) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		return
	}
	c.volume = domain.Clamp(volume, 0, 1)
	c.device.SetVolume(c.volume)
}

// PlayRange seeks to start and plays until the first time update at or past
// end. Bounds are clamped to [0, duration]. A range whose end is not after
// its start is degenerate: the clock seeks to start, stays paused and the
// returned handle completes immediately.
func (c *Clock) PlayRange(start, end float64) (*RangeEpisode, error) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return nil, fmt.Errorf("%w: range bounds must be numbers", domain.ErrInvalidInput)
	}

	c.cancelRange()

	start = domain.Clamp(start, 0, c.duration)
	end = domain.Clamp(end, 0, c.duration)

	c.episode++
	r := newRangeEpisode(start, end, c.episode)
	c.seek(start)

	if end <= start {
		if c.playing {
			c.pause()
		}
		r.finish(true, start)
		logger.Debug("clock: degenerate range at %.2f", start)
		return r, nil
	}

	c.pending = r
	if err := c.Play(); err != nil {
		c.pending = nil
		r.finish(false, c.position)
		return r, err
	}

	logger.Debug("clock: range %d playing %.2f-%.2f", r.episode, start, end)
	return r, nil
}

// cancelRange resolves the pending episode as superseded.
func (c *Clock) cancelRange() {
	if c.pending == nil {
		return
	}
	logger.Debug("clock: range %d superseded", c.pending.episode)
	c.pending.finish(false, c.position)
	c.pending = nil
}

// HandleEvent applies a device notification. It returns the range episode
// that this notification completed, if any.
func (c *Clock) HandleEvent(ev driven.DeviceEvent) *RangeEpisode {
	switch ev.Kind {
	case driven.DeviceTimeUpdate:
		if ev.Seq < c.seeks || math.IsNaN(ev.Position) {
			return nil
		}
		c.position = domain.Clamp(ev.Position, 0, c.duration)
		return c.checkRangeEnd()

	case driven.DeviceEnded:
		if ev.Seq < c.seeks {
			return nil
		}
		c.position = c.duration
		c.playing = false
		c.buffering = false
		if r := c.pending; r != nil && r.episode == c.episode {
			c.pending = nil
			r.finish(true, c.position)
			return r
		}
		return nil

	case driven.DeviceLoadStart, driven.DeviceWaiting:
		c.buffering = true

	case driven.DeviceCanPlay, driven.DevicePlaying:
		c.buffering = false

	case driven.DeviceDurationChange:
		if ev.Duration > 0 && !math.IsNaN(ev.Duration) {
			c.duration = ev.Duration
			c.position = domain.Clamp(c.position, 0, c.duration)
		}

	case driven.DeviceError:
		c.lastErr = fmt.Errorf("%w: %v", domain.ErrDeviceFailure, ev.Err)
		c.buffering = false
		c.cancelRange()
		c.pause()
		logger.Warn("clock: device error: %v", ev.Err)
	}

	return nil
}

// checkRangeEnd pauses the device once the pending episode reaches its end.
// The episode comparison keeps a superseded range from ever stopping
// playback.
func (c *Clock) checkRangeEnd() *RangeEpisode {
	r := c.pending
	if r == nil || r.episode != c.episode {
		return nil
	}
	if c.position < r.end {
		return nil
	}

	c.pending = nil
	c.pause()
	r.finish(true, c.position)
	logger.Debug("clock: range %d stopped at %.2f", r.episode, c.position)
	return r
}

// fill copies the clock's part of the read model into st.
func (c *Clock) fill(st *domain.PlaybackState) {
	st.CurrentTime = c.position
	st.Duration = c.duration
	st.IsPlaying = c.playing
	st.IsBuffering = c.buffering
	st.Rate = c.rate
	st.Volume = c.volume
	st.RangeActive = c.pending != nil
	st.LastError = c.lastErr
}
