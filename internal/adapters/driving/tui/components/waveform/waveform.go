// Package waveform renders the playback timeline as a row of amplitude bars
// with time markers underneath.
package waveform

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// glyphs are bar heights from quietest to loudest.
var glyphs = []rune("▁▂▃▄▅▆▇█")

// Span is a normalised [Start, End] region drawn as highlighted.
type Span struct {
	Start float64
	End   float64
}

// Waveform draws amplitude peaks across the available width.
type Waveform struct {
	styles *styles.Styles
	peaks  []float64
	width  int
}

// New creates a waveform for the given peaks in [0, 1].
func New(s *styles.Styles, peaks []float64) *Waveform {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Waveform{
		styles: s,
		peaks:  append([]float64(nil), peaks...),
		width:  80,
	}
}

// SetPeaks replaces the amplitude data.
func (w *Waveform) SetPeaks(peaks []float64) {
	w.peaks = append([]float64(nil), peaks...)
}

// SetWidth sets the number of columns.
func (w *Waveform) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	w.width = width
}

// Width returns the number of columns.
func (w *Waveform) Width() int {
	return w.width
}

// Columns resamples the peaks to one value per column, taking the loudest
// peak that falls into each column.
func (w *Waveform) Columns() []float64 {
	cols := make([]float64, w.width)
	if len(w.peaks) == 0 {
		return cols
	}
	for i := range cols {
		lo := i * len(w.peaks) / w.width
		hi := (i + 1) * len(w.peaks) / w.width
		if hi <= lo {
			hi = lo + 1
		}
		for _, v := range w.peaks[lo:hi] {
			if v > cols[i] {
				cols[i] = v
			}
		}
	}
	return cols
}

// PositionAt maps a column to a normalised timeline position in [0, 1].
// The first column is the start and the last column is the end.
func (w *Waveform) PositionAt(col int) float64 {
	if w.width <= 1 {
		return 0
	}
	return domain.Clamp(float64(col)/float64(w.width-1), 0, 1)
}

// ColumnOf maps a normalised position to its column.
func (w *Waveform) ColumnOf(p float64) int {
	if w.width <= 1 {
		return 0
	}
	return int(math.Round(domain.Clamp(p, 0, 1) * float64(w.width-1)))
}

// View renders the bar row and the marker row. Columns before progress are
// drawn as played; columns inside a highlight span get the highlight
// background.
func (w *Waveform) View(progress, duration float64, highlights []Span) string {
	return w.bars(progress, highlights) + "\n" + w.markers(duration)
}

func (w *Waveform) bars(progress float64, highlights []Span) string {
	cols := w.Columns()
	head := w.ColumnOf(progress)

	var b strings.Builder
	for i, v := range cols {
		g := string(glyph(v))
		pos := w.PositionAt(i)

		var st lipgloss.Style
		switch {
		case i == head && progress > 0 && progress < 1:
			st = w.styles.Playhead
		case pos < progress:
			st = w.styles.Played
		default:
			st = w.styles.Unplayed
		}
		if inSpans(pos, highlights) {
			st = st.Background(w.styles.Theme().Highlight)
		}
		b.WriteString(st.Render(g))
	}
	return b.String()
}

// markers lays out m:ss labels at their timeline positions, skipping any
// that would overlap the previous label.
func (w *Waveform) markers(duration float64) string {
	line := []rune(strings.Repeat(" ", w.width))
	next := 0

	for _, m := range domain.TimeMarkers(duration) {
		label := []rune(m.Label)
		start := w.ColumnOf(m.Position) - len(label)/2
		if start+len(label) > w.width {
			start = w.width - len(label)
		}
		if start < 0 {
			start = 0
		}
		if start < next || start+len(label) > w.width {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}

	return w.styles.Muted.Render(strings.TrimRight(string(line), " "))
}

func glyph(v float64) rune {
	i := int(domain.Clamp(v, 0, 1) * float64(len(glyphs)-1))
	return glyphs[i]
}

func inSpans(p float64, spans []Span) bool {
	for _, s := range spans {
		if p >= s.Start && p <= s.End {
			return true
		}
	}
	return false
}
