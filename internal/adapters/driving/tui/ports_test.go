package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// MockLibraryService implements driving.LibraryService for testing.
type MockLibraryService struct {
	ListFunc     func(ctx context.Context) ([]domain.RecordingSummary, error)
	GetFunc      func(ctx context.Context, id string) (*domain.Recording, error)
	WaveformFunc func(ctx context.Context, rec *domain.Recording, bars int) []float64
}

func (m *MockLibraryService) Import(ctx context.Context, path string) (*domain.Recording, error) {
	return nil, domain.ErrUnsupportedFormat
}

func (m *MockLibraryService) List(ctx context.Context) ([]domain.RecordingSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockLibraryService) Get(ctx context.Context, id string) (*domain.Recording, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockLibraryService) Remove(ctx context.Context, id string) error {
	return nil
}

func (m *MockLibraryService) Resolve(ctx context.Context, ref string) (*domain.Recording, error) {
	return m.Get(ctx, ref)
}

func (m *MockLibraryService) Waveform(ctx context.Context, rec *domain.Recording, bars int) []float64 {
	if m.WaveformFunc != nil {
		return m.WaveformFunc(ctx, rec, bars)
	}
	return make([]float64, bars)
}

// MockSessionFactory implements driving.SessionFactory for testing.
type MockSessionFactory struct {
	OpenFunc func(rec *domain.Recording) (driving.PlaybackSession, error)
}

func (m *MockSessionFactory) Open(rec *domain.Recording) (driving.PlaybackSession, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(rec)
	}
	return nil, domain.ErrNoSession
}

func TestNewPorts(t *testing.T) {
	library := &MockLibraryService{}
	sessions := &MockSessionFactory{}

	ports := NewPorts(library, sessions)

	require.NotNil(t, ports)
	assert.Equal(t, library, ports.Library)
	assert.Equal(t, sessions, ports.Sessions)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := NewPorts(&MockLibraryService{}, &MockSessionFactory{})

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingLibrary(t *testing.T) {
	ports := &Ports{Sessions: &MockSessionFactory{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingLibraryService)
}

func TestPorts_Validate_MissingSessions(t *testing.T) {
	ports := &Ports{Library: &MockLibraryService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingSessionFactory)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
