package services

import (
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/timeline"
)

// selection is an explicit highlight set made by a click.
type selection struct {
	ids     []string
	pointID string
	// target is where the selection seeked to.
	target float64
}

func (s *selection) contains(id string) bool {
	for _, sid := range s.ids {
		if sid == id {
			return true
		}
	}
	return false
}

// Highlighter derives the highlight state from the playback position and
// the last explicit selection.
//
// Without a selection the active segment follows the clock. A selection
// holds until natural progress past its seek target lands in a segment
// outside the highlight set; live tracking resumes from there.
type Highlighter struct {
	transcript *timeline.Transcript
	sel        *selection
}

// NewHighlighter creates a highlighter over a transcript index.
func NewHighlighter(tr *timeline.Transcript) *Highlighter {
	return &Highlighter{transcript: tr}
}

// Select installs an explicit selection.
func (h *Highlighter) Select(ids []string, pointID string, target float64) {
	h.sel = &selection{
		ids:     append([]string(nil), ids...),
		pointID: pointID,
		target:  target,
	}
}

// Clear releases the explicit selection.
func (h *Highlighter) Clear() {
	h.sel = nil
}

// HasSelection reports whether an explicit selection is active.
func (h *Highlighter) HasSelection() bool {
	return h.sel != nil
}

// Observe is called for every time update. While a range-play runs the
// selection is kept regardless of position.
func (h *Highlighter) Observe(t float64, rangeActive bool) {
	if h.sel == nil || rangeActive || t <= h.sel.target {
		return
	}

	live, ok := h.transcript.ActiveSegment(t)
	if ok && !h.sel.contains(live) {
		h.sel = nil
	}
}

// Derive computes the highlight state at t.
func (h *Highlighter) Derive(t float64) domain.Highlight {
	out := domain.Highlight{ActiveWordIndex: domain.NoWord}

	if i, ok := h.transcript.ActiveWord(t); ok {
		out.ActiveWordIndex = i
	}

	live, liveOK := h.transcript.ActiveSegment(t)

	if h.sel == nil {
		if liveOK {
			out.ActiveSegmentID = live
		}
		return out
	}

	out.HighlightedSegmentIDs = append([]string(nil), h.sel.ids...)
	out.ActiveSummaryPointID = h.sel.pointID
	if liveOK && h.sel.contains(live) {
		out.ActiveSegmentID = live
	} else if len(h.sel.ids) > 0 {
		out.ActiveSegmentID = h.sel.ids[0]
	}

	return out
}
