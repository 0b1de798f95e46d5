package domain

import "time"

// Recording is a recorded consultation with everything the player needs.
// It is loaded once per session and never mutated afterwards.
type Recording struct {
	// ID is the unique identifier for the recording.
	ID string

	// Title is the human-readable title.
	Title string

	// AudioPath locates the audio asset. It may be empty.
	AudioPath string

	// Duration is the length of the recording in seconds.
	Duration float64

	Speakers []Speaker
	Segments []Segment
	Words    []Word
	Summary  []SummaryPoint

	// ImportedAt is when the recording was added to the library.
	ImportedAt time.Time
}

// Speaker returns the speaker with the given id.
func (r *Recording) Speaker(id string) (Speaker, bool) {
	for _, s := range r.Speakers {
		if s.ID == id {
			return s, true
		}
	}
	return Speaker{}, false
}

// SummaryPoint returns the summary point with the given id.
func (r *Recording) SummaryPoint(id string) (SummaryPoint, bool) {
	for _, p := range r.Summary {
		if p.ID == id {
			return p, true
		}
	}
	return SummaryPoint{}, false
}

// TranscriptEnd returns the latest segment or word end time.
func (r *Recording) TranscriptEnd() float64 {
	var end float64
	for _, s := range r.Segments {
		if s.End > end {
			end = s.End
		}
	}
	for _, w := range r.Words {
		if w.End > end {
			end = w.End
		}
	}
	return end
}

// EffectiveDuration returns Duration, falling back to the transcript end
// when the bundle did not declare one.
func (r *Recording) EffectiveDuration() float64 {
	if r.Duration > 0 {
		return r.Duration
	}
	return r.TranscriptEnd()
}

// RecordingSummary is a lightweight listing entry for the library.
type RecordingSummary struct {
	ID           string
	Title        string
	Duration     float64
	SegmentCount int
	InsightCount int
	ImportedAt   time.Time
}
