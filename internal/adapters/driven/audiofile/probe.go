package audiofile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// Ensure Probe implements the interface.
var _ driven.AudioProbe = (*Probe)(nil)

// chunkFrames is how many frames Peaks decodes per read.
const chunkFrames = 4096

// Probe inspects audio files on disk.
type Probe struct{}

// NewProbe creates an audio probe.
func NewProbe() *Probe {
	return &Probe{}
}

// Probe reads the format and title of the file at path. Duration is decoded
// for WAV files only.
func (p *Probe) Probe(ctx context.Context, path string) (*driven.AudioInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	info := &driven.AudioInfo{}

	if d := wav.NewDecoder(f); d.IsValidFile() {
		info.Format = "wav"
		info.ContentType = "audio/wav"
		if dur, err := d.Duration(); err == nil {
			info.Duration = dur.Seconds()
		}
		info.Title = wavTitle(f)
		return info, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind audio: %w", err)
	}
	ext, contentType, err := Identify(f)
	if err != nil || ext == "" {
		info.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		info.ContentType = ContentTypeFromExtension(path)
		if info.ContentType == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
		}
		return info, nil
	}
	info.Format = ext
	info.ContentType = contentType

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind audio: %w", err)
	}
	m, err := tag.ReadFrom(f)
	switch {
	case err == nil:
		info.Title = strings.TrimSpace(m.Title())
	case errors.Is(err, tag.ErrNoTagsFound):
	default:
		logger.Debug("audio: reading tags of %s: %v", path, err)
	}

	return info, nil
}

// Peaks decodes a WAV file and returns the loudest sample of each of bars
// equal slices, scaled so the loudest bar is 1.
func (p *Probe) Peaks(ctx context.Context, path string, bars int) ([]float64, error) {
	if bars <= 0 {
		return nil, fmt.Errorf("%w: bars must be positive", domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a WAV file", domain.ErrUnsupportedFormat, path)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("read WAV: %w", err)
	}

	channels := int(d.NumChans)
	bytesPerSample := int(d.BitDepth) / 8
	if channels <= 0 || bytesPerSample <= 0 {
		return nil, fmt.Errorf("%w: %s has no PCM format", domain.ErrUnsupportedFormat, path)
	}

	frames := int(d.PCMLen()) / (channels * bytesPerSample)
	peaks := make([]float64, bars)
	if frames == 0 {
		return peaks, nil
	}
	framesPerBar := int(math.Ceil(float64(frames) / float64(bars)))

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		Data:   make([]int, chunkFrames*channels),
	}
	fullScale := math.Pow(2, float64(d.BitDepth-1))

	frame := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := d.PCMBuffer(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode WAV: %w", err)
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			bar := (frame + i/channels) / framesPerBar
			if bar >= bars {
				bar = bars - 1
			}
			v := math.Abs(float64(buf.Data[i])) / fullScale
			if v > peaks[bar] {
				peaks[bar] = v
			}
		}
		frame += n / channels
	}

	scale(peaks)
	return peaks, nil
}

// wavTitle reads the INFO title of a WAV file, if any.
func wavTitle(f io.ReadSeeker) string {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	d := wav.NewDecoder(f)
	d.ReadMetadata()
	if d.Err() != nil || d.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(d.Metadata.Title)
}

// scale stretches peaks so the loudest is 1.
func scale(peaks []float64) {
	var loudest float64
	for _, v := range peaks {
		if v > loudest {
			loudest = v
		}
	}
	if loudest == 0 {
		return
	}
	for i, v := range peaks {
		peaks[i] = domain.Clamp(v/loudest, 0, 1)
	}
}
