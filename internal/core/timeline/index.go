package timeline

import (
	"math"
	"sort"
)

// Span is a closed time interval [Start, End] in seconds.
type Span struct {
	Start float64
	End   float64
}

// Index answers "which interval contains t" over a fixed set of spans.
//
// Entries are ordered by (Start, End, original position). When several
// spans contain t, the first one in that order wins, so the answer does not
// depend on the order the spans were supplied in except among exact
// duplicates.
type Index struct {
	starts []float64
	ends   []float64
	// maxEnd[i] is the largest end among sorted entries 0..i.
	maxEnd []float64
	// origin maps a sorted position back to the caller's position.
	origin []int
}

// New builds an index. Spans with End < Start are treated as the point
// [Start, Start]; spans with a NaN bound are skipped.
func New(spans []Span) *Index {
	type entry struct {
		span Span
		pos  int
	}

	entries := make([]entry, 0, len(spans))
	for i, s := range spans {
		if math.IsNaN(s.Start) || math.IsNaN(s.End) {
			continue
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		entries = append(entries, entry{span: s, pos: i})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].span, entries[j].span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return entries[i].pos < entries[j].pos
	})

	ix := &Index{
		starts: make([]float64, len(entries)),
		ends:   make([]float64, len(entries)),
		maxEnd: make([]float64, len(entries)),
		origin: make([]int, len(entries)),
	}

	running := math.Inf(-1)
	for i, e := range entries {
		ix.starts[i] = e.span.Start
		ix.ends[i] = e.span.End
		ix.origin[i] = e.pos
		if e.span.End > running {
			running = e.span.End
		}
		ix.maxEnd[i] = running
	}

	return ix
}

// Len returns the number of indexed spans.
func (ix *Index) Len() int {
	return len(ix.starts)
}

// Find returns the caller's position of the first span containing t.
//
// The last entry starting at or before t bounds the candidates from above;
// the first entry whose running maximum end reaches t is the earliest
// candidate that can still contain t. Both are binary searches.
func (ix *Index) Find(t float64) (int, bool) {
	if ix == nil || len(ix.starts) == 0 || math.IsNaN(t) {
		return 0, false
	}

	// Number of entries with start <= t.
	upper := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > t
	})
	if upper == 0 {
		return 0, false
	}

	first := sort.Search(upper, func(i int) bool {
		return ix.maxEnd[i] >= t
	})
	if first == upper {
		return 0, false
	}

	return ix.origin[first], true
}
