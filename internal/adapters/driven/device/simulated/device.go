// Package simulated provides a playback device that advances a clock in real
// time without producing sound. It stands in for an audio output in the
// terminal player, the MCP server and tests.
package simulated

import (
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
)

// ErrClosed is returned by Play after Close.
var ErrClosed = errors.New("simulated device closed")

// queueSize bounds pending notifications. Time updates are dropped when the
// listener falls behind; state changes never are.
const queueSize = 64

// Ensure Device implements the interface.
var _ driven.PlaybackDevice = (*Device)(nil)

// Device is a simulated playback device.
//
// A ticker goroutine advances the position while playing and a dispatcher
// goroutine delivers notifications, so listeners are never called from
// inside a command.
type Device struct {
	mu sync.Mutex

	duration float64
	position float64
	playing  bool
	rate     float64
	volume   float64
	seeks    uint64
	lastTick time.Time

	listeners map[uint64]func(driven.DeviceEvent)
	nextID    uint64

	events  chan driven.DeviceEvent
	urgent  []driven.DeviceEvent
	wake    chan struct{}
	stop    chan struct{}
	closed  bool
	workers sync.WaitGroup

	now func() time.Time
}

// Option configures a Device.
type Option func(*Device)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Device) {
		d.now = now
	}
}

// New creates a device for media of the given duration, reporting its
// position every tick.
func New(duration float64, tick time.Duration, opts ...Option) *Device {
	if tick <= 0 {
		tick = domain.DefaultAppSettings().Player.TickInterval
	}

	d := &Device{
		duration:  duration,
		rate:      domain.DefaultRate,
		volume:    domain.DefaultVolume,
		listeners: make(map[uint64]func(driven.DeviceEvent)),
		events:    make(chan driven.DeviceEvent, queueSize),
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceLoadStart})
	d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceDurationChange, Duration: duration})
	d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceCanPlay})

	d.workers.Add(2)
	go d.runTicker(tick)
	go d.runDispatcher()

	return d
}

// Factory returns a driven.DeviceFactory creating simulated devices.
func Factory(tick time.Duration) driven.DeviceFactory {
	return func(rec *domain.Recording) (driven.PlaybackDevice, error) {
		return New(rec.EffectiveDuration(), tick), nil
	}
}

// Position returns the current position in seconds.
func (d *Device) Position() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.playing {
		return d.position
	}
	pos := d.position + d.now().Sub(d.lastTick).Seconds()*d.rate
	if d.duration > 0 && pos > d.duration {
		pos = d.duration
	}
	return pos
}

// Duration returns the media duration.
func (d *Device) Duration() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

// Seek moves the position.
func (d *Device) Seek(t float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.position = t
	d.seeks++
	d.lastTick = d.now()
	d.postLocked(driven.DeviceEvent{Kind: driven.DeviceTimeUpdate, Position: t})
}

// Play starts advancing the position.
func (d *Device) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.playing {
		return nil
	}
	d.playing = true
	d.lastTick = d.now()
	d.pushLocked(driven.DeviceEvent{Kind: driven.DevicePlaying})
	return nil
}

// Pause stops advancing the position.
func (d *Device) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advanceLocked()
	d.playing = false
}

// SetRate sets the playback rate.
func (d *Device) SetRate(rate float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advanceLocked()
	d.rate = rate
}

// SetVolume records the volume. The device is silent.
func (d *Device) SetVolume(volume float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = volume
}

// Volume returns the last volume set.
func (d *Device) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

// IsPlaying reports whether the device is advancing.
func (d *Device) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

// Subscribe registers a listener.
func (d *Device) Subscribe(listener func(driven.DeviceEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = listener

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Listeners returns the number of active subscriptions.
func (d *Device) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Close stops the device goroutines. Close is idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.playing = false
	close(d.stop)
	d.mu.Unlock()

	d.workers.Wait()
	return nil
}

// Fail injects a device error, as a decoder failure would.
func (d *Device) Fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
	d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceError, Err: err})
}

// Stall reports a buffering stall, optionally followed by recovery.
func (d *Device) Stall(recovered bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceWaiting})
	if recovered {
		d.pushLocked(driven.DeviceEvent{Kind: driven.DevicePlaying})
	}
}

func (d *Device) runTicker(tick time.Duration) {
	defer d.workers.Done()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			if d.playing {
				d.advanceLocked()
				d.postLocked(driven.DeviceEvent{Kind: driven.DeviceTimeUpdate, Position: d.position})
			}
			d.mu.Unlock()
		}
	}
}

// advanceLocked moves the position by the wall time elapsed since the last
// tick and reports the end of the media. Must hold d.mu.
func (d *Device) advanceLocked() {
	now := d.now()
	if !d.playing {
		d.lastTick = now
		return
	}

	d.position += now.Sub(d.lastTick).Seconds() * d.rate
	d.lastTick = now

	if d.duration > 0 && d.position >= d.duration {
		d.position = d.duration
		d.playing = false
		d.pushLocked(driven.DeviceEvent{Kind: driven.DeviceEnded, Position: d.position})
	}
}

// postLocked queues a time update, dropping it if the queue is full.
// Must hold d.mu.
func (d *Device) postLocked(ev driven.DeviceEvent) {
	if d.closed {
		return
	}
	ev.Seq = d.seeks
	select {
	case d.events <- ev:
	default:
	}
}

// pushLocked queues a state change that must not be lost. Must hold d.mu.
func (d *Device) pushLocked(ev driven.DeviceEvent) {
	if d.closed {
		return
	}
	ev.Seq = d.seeks
	d.urgent = append(d.urgent, ev)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Device) runDispatcher() {
	defer d.workers.Done()

	for {
		select {
		case <-d.stop:
			return
		case ev := <-d.events:
			d.deliver(ev)
		case <-d.wake:
		}

		// State changes go out after any time update already taken.
		for {
			d.mu.Lock()
			if len(d.urgent) == 0 {
				d.mu.Unlock()
				break
			}
			ev := d.urgent[0]
			d.urgent = d.urgent[1:]
			d.mu.Unlock()
			d.deliver(ev)
		}
	}
}

// deliver calls every listener outside the device lock.
func (d *Device) deliver(ev driven.DeviceEvent) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	listeners := make([]func(driven.DeviceEvent), 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
