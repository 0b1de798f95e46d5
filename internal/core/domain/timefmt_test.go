package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59.4, "0:59"},
		{60, "1:00"},
		{125.6, "2:06"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatClock(tt.seconds))
	}
}

func TestTimeMarkers_CapsAtTenIntervals(t *testing.T) {
	markers := TimeMarkers(600)

	require.Len(t, markers, 11)
	assert.Equal(t, 0.0, markers[0].Position)
	assert.Equal(t, "0:00", markers[0].Label)
	assert.Equal(t, 1.0, markers[10].Position)
	assert.Equal(t, "10:00", markers[10].Label)
	assert.Equal(t, "1:00", markers[1].Label)
}

func TestTimeMarkers_ShortRecording(t *testing.T) {
	markers := TimeMarkers(35)

	require.Len(t, markers, 4)
	assert.Equal(t, "0:35", markers[3].Label)
}

func TestTimeMarkers_UnderTenSeconds(t *testing.T) {
	markers := TimeMarkers(4)

	require.Len(t, markers, 2)
	assert.Equal(t, "0:04", markers[1].Label)
}

func TestTimeMarkers_NoDuration(t *testing.T) {
	assert.Nil(t, TimeMarkers(0))
	assert.Nil(t, TimeMarkers(math.NaN()))
}
