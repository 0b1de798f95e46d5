package domain

// Word is a single timed word of the transcript.
// Times are seconds from the start of the recording.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a contiguous span of transcript text attributed to one speaker.
type Segment struct {
	// ID is stable and referenced by summary points.
	ID string `json:"id"`

	// SpeakerID links to a Speaker.
	SpeakerID string `json:"speakerId"`

	// Text is the spoken text.
	Text string `json:"text"`

	// Start and End bound the segment in seconds.
	// Two segments may share a boundary instant.
	Start float64 `json:"startTime"`
	End   float64 `json:"endTime"`

	// SmallTalk marks conversational filler.
	SmallTalk bool `json:"isSmallTalk,omitempty"`

	// Silence marks a segment with no speech.
	Silence bool `json:"isSilence,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether t lies inside the closed interval [Start, End].
func (s Segment) Contains(t float64) bool {
	return s.Start <= t && t <= s.End
}
