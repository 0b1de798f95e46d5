package services

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/core/timeline"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.PlaybackSession = (*Session)(nil)

// Session is the playback synchronisation engine for one recording. It owns
// the clock and the highlight state; every device notification and every
// command passes through the session mutex.
type Session struct {
	id         string
	recording  *domain.Recording
	insights   []domain.InsightGroup
	transcript *timeline.Transcript
	resolver   *Resolver
	device     driven.PlaybackDevice

	mu          sync.Mutex
	clock       *Clock
	highlighter *Highlighter
	closed      bool
	unsubscribe func()

	subs    map[uint64]chan domain.PlaybackState
	nextSub uint64

	// queue holds the segments still to play in an audition; queueRange is
	// the episode the queue waits on.
	queue      []domain.Segment
	queueRange *RangeEpisode
}

// NewSession creates a session for rec on device and subscribes to the
// device's notifications.
func NewSession(id string, rec *domain.Recording, device driven.PlaybackDevice, settings domain.PlayerSettings) *Session {
	tr := timeline.NewTranscript(rec.Segments, rec.Words)

	s := &Session{
		id:          id,
		recording:   rec,
		insights:    domain.GroupByCategory(rec.Summary),
		transcript:  tr,
		resolver:    NewResolver(rec, tr),
		device:      device,
		clock:       NewClock(device, rec.EffectiveDuration(), settings),
		highlighter: NewHighlighter(tr),
		subs:        make(map[uint64]chan domain.PlaybackState),
	}
	s.unsubscribe = device.Subscribe(s.handleDeviceEvent)

	logger.Debug("session %s: opened %q (%d segments, %d words)", id, rec.ID, len(rec.Segments), len(rec.Words))
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Recording returns the recording being played.
func (s *Session) Recording() *domain.Recording {
	return s.recording
}

// Insights returns the summary points grouped by category.
func (s *Session) Insights() []domain.InsightGroup {
	return s.insights
}

// Transcript returns the timeline index of the recording.
func (s *Session) Transcript() *timeline.Transcript {
	return s.transcript
}

// State returns the current read model.
func (s *Session) State() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel that receives the latest state after every
// change. The current state is delivered immediately.
func (s *Session) Subscribe() (<-chan domain.PlaybackState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.PlaybackState, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshot()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Seek moves to t. It is free navigation, so it releases any selection.
func (s *Session) Seek(t float64) {
	if math.IsNaN(t) {
		return
	}
	s.apply(func() error {
		s.clearQueue()
		s.clock.Seek(t)
		s.highlighter.Clear()
		return nil
	})
}

// PlayRange plays [start, end] and pauses at end.
func (s *Session) PlayRange(start, end float64) (driving.RangePlay, error) {
	var r *RangeEpisode
	err := s.apply(func() error {
		s.clearQueue()
		var err error
		r, err = s.clock.PlayRange(start, end)
		return err
	})
	if r == nil {
		return nil, err
	}
	return r, err
}

// Play starts playback.
func (s *Session) Play() error {
	return s.apply(s.clock.Play)
}

// Pause stops playback and abandons any range or audition.
func (s *Session) Pause() {
	s.apply(func() error {
		s.clearQueue()
		s.clock.Pause()
		return nil
	})
}

// TogglePlayPause flips between playing and paused.
func (s *Session) TogglePlayPause() error {
	return s.apply(func() error {
		if s.clock.IsPlaying() {
			s.clearQueue()
			s.clock.Pause()
			return nil
		}
		return s.clock.Play()
	})
}

// Skip moves by delta seconds and releases any selection.
func (s *Session) Skip(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	s.apply(func() error {
		s.clearQueue()
		s.clock.Skip(delta)
		s.highlighter.Clear()
		return nil
	})
}

// SetRate sets the playback rate.
func (s *Session) SetRate(rate float64) {
	s.apply(func() error {
		s.clock.SetRate(rate)
		return nil
	})
}

// SetVolume sets the output volume.
func (s *Session) SetVolume(volume float64) {
	s.apply(func() error {
		s.clock.SetVolume(volume)
		return nil
	})
}

// SelectSegment seeks to the segment and highlights it alone.
func (s *Session) SelectSegment(id string) error {
	return s.apply(func() error {
		res, err := s.resolver.Segment(id)
		if err != nil {
			return err
		}
		s.applySelection(res)
		return nil
	})
}

// SelectSummaryPoint highlights the point's evidence and seeks to the first
// cited segment. Points without resolvable evidence change nothing.
func (s *Session) SelectSummaryPoint(id string) error {
	return s.apply(func() error {
		res, err := s.resolver.SummaryPoint(id)
		if err != nil {
			return err
		}
		if res.Noop {
			logger.Debug("session %s: summary point %s has no evidence", s.id, id)
			return nil
		}
		s.applySelection(res)
		return nil
	})
}

// SelectTimeline seeks to the normalised position p.
func (s *Session) SelectTimeline(p float64) {
	s.apply(func() error {
		res := s.resolver.Timeline(p, s.clock.Duration())
		if res.Noop {
			return nil
		}
		s.clearQueue()
		s.clock.Seek(res.SeekTo)
		s.highlighter.Clear()
		return nil
	})
}

// PlaySegment selects the segment and plays exactly its span.
func (s *Session) PlaySegment(id string) (driving.RangePlay, error) {
	var r *RangeEpisode
	err := s.apply(func() error {
		res, err := s.resolver.Segment(id)
		if err != nil {
			return err
		}
		s.applySelection(res)
		seg := res.Evidence[0]
		r, err = s.clock.PlayRange(seg.Start, seg.End)
		return err
	})
	if r == nil {
		return nil, err
	}
	return r, err
}

// AuditionSummaryPoint selects the point and plays each cited segment in
// order. The returned handle covers the first segment. A point without
// resolvable evidence returns a nil handle and no error.
func (s *Session) AuditionSummaryPoint(id string) (driving.RangePlay, error) {
	var r *RangeEpisode
	err := s.apply(func() error {
		res, err := s.resolver.SummaryPoint(id)
		if err != nil {
			return err
		}
		if res.Noop {
			return nil
		}
		s.applySelection(res)

		first := res.Evidence[0]
		r, err = s.clock.PlayRange(first.Start, first.End)
		if err != nil {
			return err
		}
		s.queue = append([]domain.Segment(nil), res.Evidence[1:]...)
		s.queueRange = r
		return nil
	})
	if r == nil {
		return nil, err
	}
	return r, err
}

// Close pauses playback, releases the device subscription and closes every
// subscriber channel. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.clearQueue()
	s.clock.Pause()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	unsubscribe := s.unsubscribe
	s.mu.Unlock()

	unsubscribe()

	if c, ok := s.device.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close device: %w", err)
		}
	}

	logger.Debug("session %s: closed", s.id)
	return nil
}

// apply runs one command under the session lock and publishes the result.
func (s *Session) apply(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	err := fn()
	s.publish()
	return err
}

// handleDeviceEvent is the device listener.
func (s *Session) handleDeviceEvent(ev driven.DeviceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	wasRange := s.clock.RangeActive()
	if done := s.clock.HandleEvent(ev); done != nil {
		s.continueAudition(done)
	}

	if ev.Kind == driven.DeviceTimeUpdate {
		s.highlighter.Observe(s.clock.Position(), wasRange || s.clock.RangeActive())
	}

	s.publish()
}

// continueAudition starts the next queued segment once the previous one
// completed.
func (s *Session) continueAudition(done *RangeEpisode) {
	if done != s.queueRange {
		return
	}
	if !done.Completed() || len(s.queue) == 0 {
		s.clearQueue()
		return
	}

	next := s.queue[0]
	s.queue = s.queue[1:]

	r, err := s.clock.PlayRange(next.Start, next.End)
	if err != nil {
		logger.Warn("session %s: audition stopped: %v", s.id, err)
		s.clearQueue()
		return
	}
	s.queueRange = r
}

func (s *Session) clearQueue() {
	s.queue = nil
	s.queueRange = nil
}

// applySelection applies a segment or summary point resolution.
func (s *Session) applySelection(res Resolution) {
	s.clearQueue()
	target := s.clock.Seek(res.SeekTo)
	s.highlighter.Select(res.Highlight, res.PointID, target)
}

func (s *Session) snapshot() domain.PlaybackState {
	var st domain.PlaybackState
	s.clock.fill(&st)
	st.Highlight = s.highlighter.Derive(st.CurrentTime)
	return st
}

// publish delivers the current state to every subscriber, replacing any
// state a slow reader has not consumed yet. Must hold s.mu.
func (s *Session) publish() {
	if len(s.subs) == 0 {
		return
	}

	st := s.snapshot()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// Ensure Player implements the interface.
var _ driving.SessionFactory = (*Player)(nil)

// Player opens playback sessions on devices created by a factory.
type Player struct {
	newDevice driven.DeviceFactory
	settings  domain.PlayerSettings
}

// NewPlayer creates a session factory.
func NewPlayer(newDevice driven.DeviceFactory, settings domain.PlayerSettings) *Player {
	return &Player{
		newDevice: newDevice,
		settings:  settings,
	}
}

// Open creates a session for rec.
func (p *Player) Open(rec *domain.Recording) (driving.PlaybackSession, error) {
	if rec == nil {
		return nil, fmt.Errorf("open session: %w", domain.ErrInvalidInput)
	}

	device, err := p.newDevice(rec)
	if err != nil {
		return nil, fmt.Errorf("create device for %s: %w", rec.ID, err)
	}

	return NewSession(uuid.NewString(), rec, device, p.settings), nil
}
