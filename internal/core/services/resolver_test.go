package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/timeline"
)

func newTestResolver() *Resolver {
	rec := consultation()
	return NewResolver(rec, timeline.NewTranscript(rec.Segments, rec.Words))
}

func TestResolver_Segment(t *testing.T) {
	r := newTestResolver()

	res, err := r.Segment("seg-3")

	require.NoError(t, err)
	assert.False(t, res.Noop)
	assert.Equal(t, 10.0, res.SeekTo)
	assert.Equal(t, []string{"seg-3"}, res.Highlight)
	assert.Empty(t, res.PointID)
}

func TestResolver_Segment_Unknown(t *testing.T) {
	r := newTestResolver()

	res, err := r.Segment("nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, res.Noop)
}

func TestResolver_SummaryPoint_DropsDanglingIDs(t *testing.T) {
	r := newTestResolver()

	res, err := r.SummaryPoint("sp-2")

	require.NoError(t, err)
	assert.Equal(t, []string{"seg-3", "seg-4"}, res.Highlight)
	assert.Equal(t, 10.0, res.SeekTo)
	assert.Equal(t, "sp-2", res.PointID)
	require.Len(t, res.Evidence, 2)
}

func TestResolver_SummaryPoint_PreservesCitationOrder(t *testing.T) {
	r := newTestResolver()

	res, err := r.SummaryPoint("sp-5")

	require.NoError(t, err)
	assert.Equal(t, []string{"seg-5", "seg-1"}, res.Highlight)
	assert.Equal(t, 20.0, res.SeekTo, "seek to the first cited segment, not the earliest")
}

func TestResolver_SummaryPoint_NoEvidence(t *testing.T) {
	r := newTestResolver()

	res, err := r.SummaryPoint("sp-3")

	require.NoError(t, err)
	assert.True(t, res.Noop)
}

func TestResolver_SummaryPoint_AllDangling(t *testing.T) {
	r := newTestResolver()

	res, err := r.SummaryPoint("sp-4")

	require.NoError(t, err)
	assert.True(t, res.Noop)
}

func TestResolver_SummaryPoint_Unknown(t *testing.T) {
	r := newTestResolver()

	_, err := r.SummaryPoint("sp-404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolver_Timeline(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{"start", 0, 0},
		{"middle", 0.5, 15},
		{"end", 1, 30},
		{"left of container", -0.2, 0},
		{"right of container", 1.3, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Timeline(tt.p, 30)
			assert.False(t, res.Noop)
			assert.InDelta(t, tt.expected, res.SeekTo, 1e-9)
			assert.Nil(t, res.Highlight)
		})
	}
}

func TestResolver_Timeline_NaN(t *testing.T) {
	r := newTestResolver()

	assert.True(t, r.Timeline(math.NaN(), 30).Noop)
}

func TestResolver_Idempotent(t *testing.T) {
	r := newTestResolver()

	first, err := r.SummaryPoint("sp-2")
	require.NoError(t, err)
	second, err := r.SummaryPoint("sp-2")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
