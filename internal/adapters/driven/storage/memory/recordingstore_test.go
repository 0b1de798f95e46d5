package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

func testRecording(id string, importedAt time.Time) *domain.Recording {
	return &domain.Recording{
		ID:       id,
		Title:    "Consultation " + id,
		Duration: 42,
		Segments: []domain.Segment{
			{ID: "segment-1", SpeakerID: "clinician", Text: "Hello", Start: 0, End: 2},
		},
		Summary: []domain.SummaryPoint{
			{ID: "summary-1", Category: "Plan", Text: "Rest", RelatedSegmentIDs: []string{"segment-1"}},
		},
		ImportedAt: importedAt,
	}
}

func TestRecordingStore_SaveAndGet(t *testing.T) {
	store := NewRecordingStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecording("rec-1", time.Now())))

	got, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Consultation rec-1", got.Title)
	assert.Len(t, got.Segments, 1)
}

func TestRecordingStore_Save_Invalid(t *testing.T) {
	store := NewRecordingStore()

	assert.ErrorIs(t, store.Save(context.Background(), &domain.Recording{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}

func TestRecordingStore_Get_NotFound(t *testing.T) {
	store := NewRecordingStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordingStore_ReturnsCopies(t *testing.T) {
	store := NewRecordingStore()
	ctx := context.Background()
	rec := testRecording("rec-1", time.Now())
	require.NoError(t, store.Save(ctx, rec))

	rec.Segments[0].Text = "mutated"
	got, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)
	got.Summary[0].RelatedSegmentIDs[0] = "mutated"

	again, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", again.Segments[0].Text)
	assert.Equal(t, "segment-1", again.Summary[0].RelatedSegmentIDs[0])
}

func TestRecordingStore_List_NewestFirst(t *testing.T) {
	store := NewRecordingStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testRecording("old", base)))
	require.NoError(t, store.Save(ctx, testRecording("new", base.Add(time.Hour))))

	list, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, 1, list[0].SegmentCount)
	assert.Equal(t, 1, list[0].InsightCount)
	assert.Equal(t, 42.0, list[0].Duration)
}

func TestRecordingStore_Delete(t *testing.T) {
	store := NewRecordingStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRecording("rec-1", time.Now())))

	require.NoError(t, store.Delete(ctx, "rec-1"))

	_, err := store.Get(ctx, "rec-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "rec-1"), domain.ErrNotFound)
}
