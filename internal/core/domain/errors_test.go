package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrPlaybackRejected", ErrPlaybackRejected},
		{"ErrDeviceFailure", ErrDeviceFailure},
		{"ErrSessionClosed", ErrSessionClosed},
		{"ErrNoSession", ErrNoSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestErrPlaybackRejected_Wrapped(t *testing.T) {
	err := fmt.Errorf("%w: autoplay blocked", ErrPlaybackRejected)

	assert.True(t, errors.Is(err, ErrPlaybackRejected))
	assert.False(t, errors.Is(err, ErrDeviceFailure))
	assert.Contains(t, err.Error(), "playback rejected")
}
