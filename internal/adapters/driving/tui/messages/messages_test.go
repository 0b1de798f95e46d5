package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewLibrary, "library"},
		{ViewPlayer, "player"},
		{ViewHelp, "help"},
		{ViewSettings, "settings"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_ValuesAreDistinct(t *testing.T) {
	seen := make(map[ViewType]bool)
	for _, v := range []ViewType{ViewMenu, ViewLibrary, ViewPlayer, ViewHelp, ViewSettings} {
		assert.False(t, seen[v], "duplicate view %s", v)
		seen[v] = true
	}
}

func TestPlaybackUpdated_CarriesHighlight(t *testing.T) {
	msg := PlaybackUpdated{State: domain.PlaybackState{
		CurrentTime: 6.2,
		Highlight: domain.Highlight{
			ActiveWordIndex:       2,
			ActiveSegmentID:       "segment-2",
			HighlightedSegmentIDs: []string{"segment-2"},
		},
	}}

	assert.True(t, msg.State.HasActiveWord())
	assert.True(t, msg.State.IsHighlighted("segment-2"))
	assert.False(t, msg.State.IsHighlighted("segment-3"))
}

func TestErrorCarryingMessages(t *testing.T) {
	err := errors.New("boom")

	assert.ErrorIs(t, RecordingsLoaded{Err: err}.Err, err)
	assert.ErrorIs(t, RecordingImported{Err: err}.Err, err)
	assert.ErrorIs(t, RecordingRemoved{ID: "rec-1", Err: err}.Err, err)
	assert.ErrorIs(t, SessionOpened{Err: err}.Err, err)
	assert.ErrorIs(t, ErrorOccurred{Err: err}.Err, err)
}
