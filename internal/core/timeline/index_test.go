package timeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearFind is the naive O(n) baseline the index is checked against.
// It is not used outside tests.
func linearFind(spans []Span, t float64) (int, bool) {
	best := -1
	var bestSpan Span
	for i, s := range spans {
		if math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsNaN(t) {
			continue
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		if s.Start > t || t > s.End {
			continue
		}
		if best == -1 ||
			s.Start < bestSpan.Start ||
			(s.Start == bestSpan.Start && s.End < bestSpan.End) {
			best, bestSpan = i, s
		}
	}
	return best, best != -1
}

func TestIndex_Empty(t *testing.T) {
	ix := New(nil)

	_, ok := ix.Find(0)
	assert.False(t, ok)
	assert.Equal(t, 0, ix.Len())
}

func TestIndex_NilReceiver(t *testing.T) {
	var ix *Index

	_, ok := ix.Find(1)
	assert.False(t, ok)
}

func TestIndex_FindInsideAndGaps(t *testing.T) {
	ix := New([]Span{
		{Start: 0.0, End: 0.4},
		{Start: 0.6, End: 1.0},
		{Start: 1.5, End: 2.0},
	})

	tests := []struct {
		name   string
		t      float64
		want   int
		wantOK bool
	}{
		{name: "inside first", t: 0.2, want: 0, wantOK: true},
		{name: "inside second", t: 0.8, want: 1, wantOK: true},
		{name: "inside third", t: 1.7, want: 2, wantOK: true},
		{name: "gap between words", t: 0.5, wantOK: false},
		{name: "gap before third", t: 1.2, wantOK: false},
		{name: "before first", t: -0.1, wantOK: false},
		{name: "after last", t: 2.01, wantOK: false},
		{name: "start boundary inclusive", t: 0.6, want: 1, wantOK: true},
		{name: "end boundary inclusive", t: 2.0, want: 2, wantOK: true},
		{name: "NaN", t: math.NaN(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.Find(tt.t)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIndex_SharedBoundaryFirstMatchWins(t *testing.T) {
	ix := New([]Span{{Start: 0, End: 5}, {Start: 5, End: 9}})

	got, ok := ix.Find(5)
	require.True(t, ok)
	assert.Equal(t, 0, got)

	got, ok = ix.Find(5.0001)
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestIndex_SharedBoundaryIndependentOfInputOrder(t *testing.T) {
	ix := New([]Span{{Start: 5, End: 9}, {Start: 0, End: 5}})

	got, ok := ix.Find(5)
	require.True(t, ok)
	assert.Equal(t, 1, got, "the span starting at 0 wins regardless of input order")
}

func TestIndex_UnsortedInputMapsBackToOriginalPositions(t *testing.T) {
	spans := []Span{
		{Start: 20, End: 25},
		{Start: 0, End: 5},
		{Start: 10, End: 15},
	}
	ix := New(spans)

	got, ok := ix.Find(12)
	require.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = ix.Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, got)

	// Caller's slice is untouched.
	assert.Equal(t, 20.0, spans[0].Start)
	assert.Equal(t, 0.0, spans[1].Start)
}

func TestIndex_OverlappingSpans(t *testing.T) {
	ix := New([]Span{
		{Start: 0, End: 100}, // long span covering everything
		{Start: 10, End: 20},
		{Start: 30, End: 40},
	})

	got, ok := ix.Find(35)
	require.True(t, ok)
	assert.Equal(t, 0, got)

	ix = New([]Span{
		{Start: 0, End: 12},
		{Start: 10, End: 20},
		{Start: 11, End: 11.5},
	})
	got, ok = ix.Find(15)
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestIndex_InvertedAndNaNSpans(t *testing.T) {
	ix := New([]Span{
		{Start: 3, End: 1},
		{Start: math.NaN(), End: 4},
		{Start: 6, End: 7},
	})

	assert.Equal(t, 2, ix.Len())

	got, ok := ix.Find(3)
	require.True(t, ok)
	assert.Equal(t, 0, got)

	_, ok = ix.Find(2)
	assert.False(t, ok, "inverted span collapses to its start point")

	got, ok = ix.Find(6.5)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestIndex_Idempotent(t *testing.T) {
	ix := New([]Span{{Start: 0, End: 1}, {Start: 1, End: 2}})

	first, ok1 := ix.Find(1)
	for i := 0; i < 10; i++ {
		got, ok := ix.Find(1)
		assert.Equal(t, ok1, ok)
		assert.Equal(t, first, got)
	}
}

func TestIndex_MatchesLinearBaseline(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(60)
		spans := make([]Span, n)
		for i := range spans {
			start := math.Round(rng.Float64()*1000) / 10
			spans[i] = Span{Start: start, End: start + math.Round(rng.Float64()*80)/10}
		}

		ix := New(spans)
		for q := 0; q < 200; q++ {
			tq := math.Round(rng.Float64()*1100) / 10
			want, wantOK := linearFind(spans, tq)
			got, ok := ix.Find(tq)

			require.Equal(t, wantOK, ok, "round %d t=%v", round, tq)
			if wantOK {
				require.Equal(t, spans[want], spans[got], "round %d t=%v", round, tq)
			}
		}
	}
}

func BenchmarkIndex_Find(b *testing.B) {
	const n = 50000
	spans := make([]Span, n)
	for i := range spans {
		spans[i] = Span{Start: float64(i) * 0.3, End: float64(i)*0.3 + 0.25}
	}
	ix := New(spans)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Find(float64(i%n) * 0.3)
	}
}
