package timeline

import (
	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// Transcript indexes the words and segments of one recording.
// It holds its own copies of the input and is safe to share read-only.
type Transcript struct {
	segments []domain.Segment
	words    []domain.Word
	byID     map[string]int

	segmentIndex *Index
	wordIndex    *Index
}

// NewTranscript builds word and segment indexes. When two segments share an
// id the first one is kept for id lookups.
func NewTranscript(segments []domain.Segment, words []domain.Word) *Transcript {
	tr := &Transcript{
		segments: append([]domain.Segment(nil), segments...),
		words:    append([]domain.Word(nil), words...),
		byID:     make(map[string]int, len(segments)),
	}

	segSpans := make([]Span, len(tr.segments))
	for i, s := range tr.segments {
		segSpans[i] = Span{Start: s.Start, End: s.End}
		if _, dup := tr.byID[s.ID]; !dup {
			tr.byID[s.ID] = i
		}
	}

	wordSpans := make([]Span, len(tr.words))
	for i, w := range tr.words {
		wordSpans[i] = Span{Start: w.Start, End: w.End}
	}

	tr.segmentIndex = New(segSpans)
	tr.wordIndex = New(wordSpans)
	return tr
}

// ActiveWord returns the index of the word containing t, in the caller's
// original word order.
func (tr *Transcript) ActiveWord(t float64) (int, bool) {
	return tr.wordIndex.Find(t)
}

// ActiveSegment returns the id of the segment containing t.
func (tr *Transcript) ActiveSegment(t float64) (string, bool) {
	pos, ok := tr.segmentIndex.Find(t)
	if !ok {
		return "", false
	}
	return tr.segments[pos].ID, true
}

// Segment returns the segment with the given id.
func (tr *Transcript) Segment(id string) (domain.Segment, bool) {
	i, ok := tr.byID[id]
	if !ok {
		return domain.Segment{}, false
	}
	return tr.segments[i], true
}

// HasSegment reports whether id names a segment of this transcript.
func (tr *Transcript) HasSegment(id string) bool {
	_, ok := tr.byID[id]
	return ok
}

// Word returns the word at index i of the original word order.
func (tr *Transcript) Word(i int) (domain.Word, bool) {
	if i < 0 || i >= len(tr.words) {
		return domain.Word{}, false
	}
	return tr.words[i], true
}

// ResolveSegments keeps the ids that exist in the transcript, preserving
// order and dropping duplicates. Unknown ids are dropped silently.
func (tr *Transcript) ResolveSegments(ids []string) []domain.Segment {
	out := make([]domain.Segment, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seg, ok := tr.Segment(id)
		if !ok {
			continue
		}
		seen[id] = true
		out = append(out, seg)
	}
	return out
}

// SegmentCount returns the number of segments.
func (tr *Transcript) SegmentCount() int {
	return len(tr.segments)
}

// WordCount returns the number of words.
func (tr *Transcript) WordCount() int {
	return len(tr.words)
}
