package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil library service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingLibraryService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := newTestServer(&mockLibraryService{})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil library service returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLibraryService)
	})

	t.Run("missing session factory returns error", func(t *testing.T) {
		ports := &Ports{Library: &mockLibraryService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingSessionFactory)
	})
}

func TestServer_CloseReleasesSessions(t *testing.T) {
	server, err := newTestServer(&mockLibraryService{recordings: []*domain.Recording{testRecording()}})
	require.NoError(t, err)

	_, opened, err := server.handleOpenRecording(t.Context(), nil, OpenRecordingInput{Recording: "rec-1"})
	require.NoError(t, err)
	session, err := server.sessions.get(opened.SessionID)
	require.NoError(t, err)

	server.Close()

	assert.Equal(t, 0, server.sessions.count())
	assert.ErrorIs(t, session.SelectSegment("segment-1"), domain.ErrSessionClosed)
}

func TestServer_Handler(t *testing.T) {
	server, err := newTestServer(&mockLibraryService{})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	// A GET without a session id is refused rather than served.
	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := newTestServer(&mockLibraryService{recordings: []*domain.Recording{testRecording()}})
	require.NoError(t, err)
	_, _, err = server.handleOpenRecording(t.Context(), nil, OpenRecordingInput{Recording: "rec-1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.RunHTTP(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(shutdownGrace + time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
	assert.Equal(t, 0, server.sessions.count(), "sessions closed on stop")
}

func TestInstructions_NameTools(t *testing.T) {
	for _, tool := range []string{"open_recording", "play_range", "close_session"} {
		assert.True(t, strings.Contains(instructions, tool), tool)
	}
}
