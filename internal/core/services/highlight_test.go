package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/timeline"
)

func newTestHighlighter() *Highlighter {
	rec := consultation()
	return NewHighlighter(timeline.NewTranscript(rec.Segments, rec.Words))
}

func TestHighlighter_LiveTracking(t *testing.T) {
	h := newTestHighlighter()

	hl := h.Derive(6.2)

	assert.Equal(t, "seg-2", hl.ActiveSegmentID)
	assert.Equal(t, 2, hl.ActiveWordIndex)
	assert.Empty(t, hl.HighlightedSegmentIDs)
	assert.Empty(t, hl.ActiveSummaryPointID)
}

func TestHighlighter_Gap(t *testing.T) {
	h := newTestHighlighter()

	hl := h.Derive(17)

	assert.Empty(t, hl.ActiveSegmentID)
	assert.Equal(t, domain.NoWord, hl.ActiveWordIndex)
	assert.False(t, hl.HasActiveWord())
}

func TestHighlighter_SelectionAnchorsOutsideSet(t *testing.T) {
	h := newTestHighlighter()
	h.Select([]string{"seg-2"}, "sp-1", 5)

	// t=5 is shared by seg-1 and seg-2; the index resolves it to seg-1.
	hl := h.Derive(5)

	assert.Equal(t, "seg-2", hl.ActiveSegmentID)
	assert.Equal(t, []string{"seg-2"}, hl.HighlightedSegmentIDs)
	assert.Equal(t, "sp-1", hl.ActiveSummaryPointID)
}

func TestHighlighter_SelectionFollowsLiveInsideSet(t *testing.T) {
	h := newTestHighlighter()
	h.Select([]string{"seg-3", "seg-4"}, "sp-2", 10)

	assert.Equal(t, "seg-3", h.Derive(11).ActiveSegmentID)
	assert.Equal(t, "seg-4", h.Derive(13).ActiveSegmentID)
}

func TestHighlighter_ReleasedWhenProgressLeavesSet(t *testing.T) {
	h := newTestHighlighter()
	h.Select([]string{"seg-2"}, "sp-1", 5)

	h.Observe(5, false)
	assert.True(t, h.HasSelection(), "the seek target itself never releases")

	h.Observe(7, false)
	assert.True(t, h.HasSelection())

	h.Observe(9.5, false)
	assert.True(t, h.HasSelection(), "gaps keep the selection")

	h.Observe(10.2, false)
	assert.False(t, h.HasSelection())

	hl := h.Derive(10.2)
	assert.Equal(t, "seg-3", hl.ActiveSegmentID)
	assert.Empty(t, hl.HighlightedSegmentIDs)
	assert.Empty(t, hl.ActiveSummaryPointID)
}

func TestHighlighter_KeptDuringRange(t *testing.T) {
	h := newTestHighlighter()
	h.Select([]string{"seg-5", "seg-1"}, "sp-5", 20)

	h.Observe(2, true)

	assert.True(t, h.HasSelection())
}

func TestHighlighter_Clear(t *testing.T) {
	h := newTestHighlighter()
	h.Select([]string{"seg-2"}, "sp-1", 5)

	h.Clear()

	assert.False(t, h.HasSelection())
	assert.Equal(t, "seg-1", h.Derive(1).ActiveSegmentID)
}

func TestHighlighter_SelectCopiesIDs(t *testing.T) {
	h := newTestHighlighter()
	ids := []string{"seg-2"}
	h.Select(ids, "", 5)

	ids[0] = "seg-4"

	assert.Equal(t, []string{"seg-2"}, h.Derive(6).HighlightedSegmentIDs)
}
