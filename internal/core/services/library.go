package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// defaultWaveformBars is used when the caller asks for no bars.
const defaultWaveformBars = 120

// LibraryService manages imported recordings.
type LibraryService struct {
	store  driven.RecordingStore
	loader driven.BundleLoader
	probe  driven.AudioProbe
}

// NewLibraryService creates a new library service. probe may be nil.
func NewLibraryService(
	store driven.RecordingStore,
	loader driven.BundleLoader,
	probe driven.AudioProbe,
) *LibraryService {
	return &LibraryService{
		store:  store,
		loader: loader,
		probe:  probe,
	}
}

// Import loads the bundle at path and stores it.
func (s *LibraryService) Import(ctx context.Context, path string) (*domain.Recording, error) {
	rec, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}

	rec.ImportedAt = time.Now().UTC()
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save recording: %w", err)
	}

	logger.Info("imported %q as %s (%d segments, %d insights)", rec.Title, rec.ID, len(rec.Segments), len(rec.Summary))
	return rec, nil
}

// List returns all recordings, newest first.
func (s *LibraryService) List(ctx context.Context) ([]domain.RecordingSummary, error) {
	return s.store.List(ctx)
}

// Get retrieves a recording by ID.
func (s *LibraryService) Get(ctx context.Context, id string) (*domain.Recording, error) {
	if id == "" {
		return nil, fmt.Errorf("recording id: %w", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Remove deletes a recording.
func (s *LibraryService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("recording id: %w", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// Resolve returns the recording named by ref: a bundle file on disk, or a
// library id.
func (s *LibraryService) Resolve(ctx context.Context, ref string) (*domain.Recording, error) {
	if ref == "" {
		return nil, fmt.Errorf("recording reference: %w", domain.ErrInvalidInput)
	}

	if s.loader.Accepts(ref) {
		if _, err := os.Stat(ref); err == nil {
			return s.load(ctx, ref)
		}
	}

	rec, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return rec, nil
}

// Waveform returns bar amplitudes for the recording. Peaks come from the
// audio file when it can be decoded; otherwise a speech envelope is derived
// from transcript coverage.
func (s *LibraryService) Waveform(ctx context.Context, rec *domain.Recording, bars int) []float64 {
	if bars <= 0 {
		bars = defaultWaveformBars
	}

	if s.probe != nil && rec.AudioPath != "" {
		peaks, err := s.probe.Peaks(ctx, rec.AudioPath, bars)
		if err == nil && len(peaks) == bars {
			return peaks
		}
		if err != nil && !errors.Is(err, domain.ErrUnsupportedFormat) {
			logger.Warn("waveform: %v", err)
		}
	}

	return SpeechEnvelope(rec, bars)
}

// load parses a bundle and fills in what the audio file can tell us.
func (s *LibraryService) load(ctx context.Context, path string) (*domain.Recording, error) {
	rec, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load bundle %s: %w", path, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if s.probe != nil && rec.AudioPath != "" {
		info, err := s.probe.Probe(ctx, rec.AudioPath)
		switch {
		case err != nil:
			logger.Warn("probe %s: %v", rec.AudioPath, err)
		default:
			if rec.Duration <= 0 && info.Duration > 0 {
				rec.Duration = info.Duration
			}
			if rec.Title == "" {
				rec.Title = info.Title
			}
		}
	}

	if rec.Title == "" {
		rec.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if rec.Duration <= 0 {
		rec.Duration = rec.TranscriptEnd()
	}

	return rec, nil
}

// SpeechEnvelope derives deterministic bar amplitudes from segment coverage
// and word density. Silence segments contribute nothing.
func SpeechEnvelope(rec *domain.Recording, bars int) []float64 {
	out := make([]float64, bars)
	duration := rec.EffectiveDuration()
	if bars == 0 || duration <= 0 {
		return out
	}

	width := duration / float64(bars)
	coverage := make([]float64, bars)
	density := make([]float64, bars)

	for _, seg := range rec.Segments {
		if seg.Silence || !(seg.End > seg.Start) {
			continue
		}
		first := int(math.Floor(seg.Start / width))
		last := int(math.Floor(seg.End / width))
		for i := max(first, 0); i <= min(last, bars-1); i++ {
			lo := math.Max(seg.Start, float64(i)*width)
			hi := math.Min(seg.End, float64(i+1)*width)
			if hi > lo {
				coverage[i] += (hi - lo) / width
			}
		}
	}

	var peak float64
	for _, w := range rec.Words {
		i := int(math.Floor(w.Start / width))
		if i < 0 || i >= bars {
			continue
		}
		density[i]++
		peak = math.Max(peak, density[i])
	}

	for i := range out {
		v := 0.05 + 0.6*math.Min(coverage[i], 1)
		if peak > 0 {
			v += 0.3 * density[i] / peak
		}
		out[i] = domain.Clamp(v, 0, 1)
	}
	return out
}
