package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
)

// Ensure RecordingStore implements the interface.
var _ driven.RecordingStore = (*RecordingStore)(nil)

// RecordingStore is an in-memory implementation of driven.RecordingStore.
type RecordingStore struct {
	mu         sync.RWMutex
	recordings map[string]domain.Recording
}

// NewRecordingStore creates a new in-memory recording store.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{
		recordings: make(map[string]domain.Recording),
	}
}

// Save stores or replaces a recording.
func (s *RecordingStore) Save(_ context.Context, rec *domain.Recording) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordings[rec.ID] = cloneRecording(rec)
	return nil
}

// Get retrieves a recording by ID.
func (s *RecordingStore) Get(_ context.Context, id string) (*domain.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recordings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRecording(&rec)
	return &out, nil
}

// List returns recording summaries, newest first.
func (s *RecordingStore) List(_ context.Context) ([]domain.RecordingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RecordingSummary, 0, len(s.recordings))
	for i := range s.recordings {
		rec := s.recordings[i]
		result = append(result, domain.RecordingSummary{
			ID:           rec.ID,
			Title:        rec.Title,
			Duration:     rec.EffectiveDuration(),
			SegmentCount: len(rec.Segments),
			InsightCount: len(rec.Summary),
			ImportedAt:   rec.ImportedAt,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ImportedAt.Equal(result[j].ImportedAt) {
			return result[i].ImportedAt.After(result[j].ImportedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a recording.
func (s *RecordingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recordings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recordings, id)
	return nil
}

// cloneRecording copies the slices so callers never share backing arrays
// with the store.
func cloneRecording(rec *domain.Recording) domain.Recording {
	out := *rec
	out.Speakers = append([]domain.Speaker(nil), rec.Speakers...)
	out.Segments = append([]domain.Segment(nil), rec.Segments...)
	out.Words = append([]domain.Word(nil), rec.Words...)
	out.Summary = make([]domain.SummaryPoint, len(rec.Summary))
	for i, p := range rec.Summary {
		p.RelatedSegmentIDs = append([]string(nil), p.RelatedSegmentIDs...)
		out.Summary[i] = p
	}
	return out
}
