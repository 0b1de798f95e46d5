package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/timeline"
)

// Resolution is the outcome of a user selection: where to seek and what to
// highlight.
type Resolution struct {
	// Noop is true when the action must change nothing at all.
	Noop bool

	// SeekTo is the playback target in seconds.
	SeekTo float64

	// Highlight is the new ordered highlight set. Nil releases any
	// explicit selection.
	Highlight []string

	// PointID is the active summary point, or empty.
	PointID string

	// Evidence lists the highlighted segments in order.
	Evidence []domain.Segment
}

// Resolver translates segment, summary point and timeline clicks into a
// seek target and a highlight set. It holds no mutable state.
type Resolver struct {
	recording  *domain.Recording
	transcript *timeline.Transcript
}

// NewResolver creates a resolver over a recording and its transcript index.
func NewResolver(rec *domain.Recording, tr *timeline.Transcript) *Resolver {
	return &Resolver{recording: rec, transcript: tr}
}

// Segment resolves a click on a transcript segment.
func (r *Resolver) Segment(id string) (Resolution, error) {
	seg, ok := r.transcript.Segment(id)
	if !ok {
		return Resolution{Noop: true}, fmt.Errorf("segment %q: %w", id, domain.ErrNotFound)
	}

	return Resolution{
		SeekTo:    seg.Start,
		Highlight: []string{seg.ID},
		Evidence:  []domain.Segment{seg},
	}, nil
}

// SummaryPoint resolves a click on an insight. Points without evidence, or
// whose evidence is entirely absent from the transcript, are inert. Dangling
// ids are dropped silently; the seek target is the first surviving segment.
func (r *Resolver) SummaryPoint(id string) (Resolution, error) {
	point, ok := r.recording.SummaryPoint(id)
	if !ok {
		return Resolution{Noop: true}, fmt.Errorf("summary point %q: %w", id, domain.ErrNotFound)
	}
	if !point.HasEvidence() {
		return Resolution{Noop: true}, nil
	}

	evidence := r.transcript.ResolveSegments(point.RelatedSegmentIDs)
	if len(evidence) == 0 {
		return Resolution{Noop: true}, nil
	}

	ids := make([]string, len(evidence))
	for i, seg := range evidence {
		ids[i] = seg.ID
	}

	return Resolution{
		SeekTo:    evidence[0].Start,
		Highlight: ids,
		PointID:   point.ID,
		Evidence:  evidence,
	}, nil
}

// Timeline resolves a click at normalised position p on the waveform.
// Positions outside [0, 1] from pointer events at the container edges are
// clamped. The click is free navigation, so it releases any selection.
func (r *Resolver) Timeline(p, duration float64) Resolution {
	if math.IsNaN(p) {
		return Resolution{Noop: true}
	}
	return Resolution{SeekTo: domain.Clamp(p, 0, 1) * duration}
}
