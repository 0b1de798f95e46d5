package services

import (
	"sync"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
)

// fakeDevice is a scripted playback device. Tests drive notifications with
// Tick and Emit from the test goroutine.
type fakeDevice struct {
	mu sync.Mutex

	position float64
	duration float64
	playing  bool
	rate     float64
	volume   float64

	playErr    error
	playCalls  int
	pauseCalls int
	seeks      []float64

	listeners map[int]func(driven.DeviceEvent)
	nextID    int
	closed    bool
}

var _ driven.PlaybackDevice = (*fakeDevice)(nil)

func newFakeDevice(duration float64) *fakeDevice {
	return &fakeDevice{
		duration:  duration,
		rate:      1,
		listeners: make(map[int]func(driven.DeviceEvent)),
	}
}

func (d *fakeDevice) Position() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

func (d *fakeDevice) Duration() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

func (d *fakeDevice) Seek(t float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = t
	d.seeks = append(d.seeks, t)
}

func (d *fakeDevice) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playCalls++
	if d.playErr != nil {
		return d.playErr
	}
	d.playing = true
	return nil
}

func (d *fakeDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pauseCalls++
	d.playing = false
}

func (d *fakeDevice) SetRate(rate float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rate = rate
}

func (d *fakeDevice) SetVolume(volume float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = volume
}

func (d *fakeDevice) Subscribe(listener func(driven.DeviceEvent)) func() {
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

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Emit delivers ev to every listener outside the device lock.
func (d *fakeDevice) Emit(ev driven.DeviceEvent) {
	d.mu.Lock()
	ls := make([]func(driven.DeviceEvent), 0, len(d.listeners))
	for _, l := range d.listeners {
		ls = append(ls, l)
	}
	d.mu.Unlock()

	for _, l := range ls {
		l(ev)
	}
}

// update moves the device to t and returns the time update it would report.
func (d *fakeDevice) update(t float64) driven.DeviceEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = t
	return driven.DeviceEvent{Kind: driven.DeviceTimeUpdate, Position: t, Seq: uint64(len(d.seeks))}
}

// event stamps ev with the current seek count.
func (d *fakeDevice) event(ev driven.DeviceEvent) driven.DeviceEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	ev.Seq = uint64(len(d.seeks))
	return ev
}

// Tick moves the device to t and reports a time update.
func (d *fakeDevice) Tick(t float64) {
	d.Emit(d.update(t))
}

// Advance ticks from the current position to until in steps of dt while
// the device is playing, the way a real device reports progress.
func (d *fakeDevice) Advance(until, dt float64) {
	for {
		d.mu.Lock()
		playing := d.playing
		next := d.position + dt*d.rate
		d.mu.Unlock()

		if !playing || next > until+1e-9 {
			return
		}
		d.Tick(next)
	}
}

func (d *fakeDevice) Pauses() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pauseCalls
}

func (d *fakeDevice) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *fakeDevice) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// consultation is the recording most session tests play.
func consultation() *domain.Recording {
	return &domain.Recording{
		ID:       "rec-1",
		Title:    "Follow-up consultation",
		Duration: 30,
		Speakers: []domain.Speaker{
			{ID: "dr", Name: "Dr Patel", Role: domain.RoleClinician},
			{ID: "pt", Name: "Sam", Role: domain.RolePatient},
		},
		Segments: []domain.Segment{
			{ID: "seg-1", SpeakerID: "dr", Text: "How have you been?", Start: 0, End: 5},
			{ID: "seg-2", SpeakerID: "pt", Text: "The headaches are back.", Start: 5, End: 9},
			{ID: "seg-3", SpeakerID: "dr", Text: "Any nausea?", Start: 10, End: 12},
			{ID: "seg-4", SpeakerID: "pt", Text: "Some, in the mornings.", Start: 12, End: 16},
			{ID: "seg-5", SpeakerID: "dr", Text: "Let's adjust the dose.", Start: 20, End: 26},
		},
		Words: []domain.Word{
			{Text: "How", Start: 0, End: 0.4},
			{Text: "have", Start: 0.5, End: 0.8},
			{Text: "headaches", Start: 6, End: 6.8},
			{Text: "nausea", Start: 10.5, End: 11.2},
			{Text: "dose", Start: 24, End: 24.6},
		},
		Summary: []domain.SummaryPoint{
			{ID: "sp-1", Category: "Chief Complaint", Text: "Recurring headaches", RelatedSegmentIDs: []string{"seg-2"}},
			{ID: "sp-2", Category: "Symptoms", Text: "Morning nausea", RelatedSegmentIDs: []string{"seg-3", "seg-missing", "seg-4"}},
			{ID: "sp-3", Category: "Plan", Text: "Review in two weeks", RelatedSegmentIDs: nil},
			{ID: "sp-4", Category: "Plan", Text: "Unsupported", RelatedSegmentIDs: []string{"gone"}},
			{ID: "sp-5", Category: "Plan", Text: "Adjust dose", RelatedSegmentIDs: []string{"seg-5", "seg-1"}},
		},
	}
}
