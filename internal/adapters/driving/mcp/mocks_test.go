package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/consultsync/internal/adapters/driven/device/simulated"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/services"
)

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	recordings []*domain.Recording
	err        error
}

func (m *mockLibraryService) Import(_ context.Context, _ string) (*domain.Recording, error) {
	return nil, m.err
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.RecordingSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.RecordingSummary, len(m.recordings))
	for i, r := range m.recordings {
		out[i] = domain.RecordingSummary{
			ID:           r.ID,
			Title:        r.Title,
			Duration:     r.Duration,
			SegmentCount: len(r.Segments),
			InsightCount: len(r.Summary),
		}
	}
	return out, nil
}

func (m *mockLibraryService) Get(_ context.Context, id string) (*domain.Recording, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.recordings {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLibraryService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLibraryService) Resolve(ctx context.Context, ref string) (*domain.Recording, error) {
	return m.Get(ctx, ref)
}

func (m *mockLibraryService) Waveform(_ context.Context, _ *domain.Recording, bars int) []float64 {
	return make([]float64, bars)
}

func testRecording() *domain.Recording {
	return &domain.Recording{
		ID:       "rec-1",
		Title:    "Fever and Stomach Pain",
		Duration: 30,
		Speakers: []domain.Speaker{
			{ID: "dr", Name: "Dr. Smith", Role: domain.RoleClinician},
			{ID: "pt", Name: "Mr. McKay", Role: domain.RolePatient},
		},
		Segments: []domain.Segment{
			{ID: "segment-1", SpeakerID: "dr", Text: "What brings you in?", Start: 0, End: 4},
			{ID: "segment-2", SpeakerID: "pt", Text: "A fever since Tuesday.", Start: 4, End: 10},
			{ID: "segment-3", SpeakerID: "dr", Text: "Any stomach pain?", Start: 12, End: 15},
		},
		Words: []domain.Word{
			{Text: "What", Start: 0, End: 0.4},
			{Text: "fever", Start: 4.2, End: 4.8},
		},
		Summary: []domain.SummaryPoint{
			{ID: "symptoms-0", Category: "Symptoms", Text: "Fever for three days", RelatedSegmentIDs: []string{"segment-2", "segment-3"}},
			{ID: "plan-0", Category: "Plan", Text: "Follow up in a week"},
		},
	}
}

func newTestServer(library *mockLibraryService) (*Server, error) {
	return NewServer(&Ports{
		Library:  library,
		Sessions: services.NewPlayer(simulated.Factory(time.Hour), domain.DefaultAppSettings().Player),
	})
}
