package domain

import (
	"fmt"
	"math"
)

// maxMarkerIntervals caps the number of timeline intervals.
const maxMarkerIntervals = 10

// TimeMarker is a labelled tick on the waveform timeline.
type TimeMarker struct {
	// Position is the normalised offset in [0, 1].
	Position float64

	// Label is the time in m:ss.
	Label string
}

// TimeMarkers returns evenly spaced markers for a timeline of the given
// duration, one per ten seconds up to ten intervals.
func TimeMarkers(duration float64) []TimeMarker {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil
	}

	intervals := int(math.Min(maxMarkerIntervals, math.Floor(duration/10)))
	if intervals < 1 {
		intervals = 1
	}

	step := duration / float64(intervals)
	markers := make([]TimeMarker, 0, intervals+1)
	for i := 0; i <= intervals; i++ {
		markers = append(markers, TimeMarker{
			Position: float64(i) / float64(intervals),
			Label:    FormatClock(float64(i) * step),
		})
	}
	return markers
}

// FormatClock renders seconds as m:ss. Negative and NaN values render as 0:00.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
