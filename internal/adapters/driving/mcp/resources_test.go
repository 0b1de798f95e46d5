package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractRecordingID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{name: "transcript URI", uri: "consultsync://recordings/rec-1/transcript", suffix: transcriptSuffix, expected: "rec-1"},
		{name: "insights URI", uri: "consultsync://recordings/rec-1/insights", suffix: insightsSuffix, expected: "rec-1"},
		{name: "wrong suffix", uri: "consultsync://recordings/rec-1/insights", suffix: transcriptSuffix, expected: ""},
		{name: "invalid prefix", uri: "file://recordings/rec-1/transcript", suffix: transcriptSuffix, expected: ""},
		{name: "missing id", uri: "consultsync://recordings/transcript", suffix: transcriptSuffix, expected: ""},
		{name: "nested path", uri: "consultsync://recordings/a/b/transcript", suffix: transcriptSuffix, expected: ""},
		{name: "empty URI", uri: "", suffix: transcriptSuffix, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRecordingID(tt.uri, tt.suffix))
		})
	}
}

func TestServer_handleRecordingsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists recordings as JSON", func(t *testing.T) {
		server, err := newTestServer(&mockLibraryService{recordings: []*domain.Recording{testRecording()}})
		require.NoError(t, err)

		result, err := server.handleRecordingsResource(ctx, readRequest("consultsync://recordings"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "rec-1"`)
		assert.Contains(t, result.Contents[0].Text, `"segment_count": 3`)
	})

	t.Run("empty library", func(t *testing.T) {
		server, err := newTestServer(&mockLibraryService{})
		require.NoError(t, err)

		result, err := server.handleRecordingsResource(ctx, readRequest("consultsync://recordings"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("library error", func(t *testing.T) {
		server, err := newTestServer(&mockLibraryService{err: errors.New("disk error")})
		require.NoError(t, err)

		_, err = server.handleRecordingsResource(ctx, readRequest("consultsync://recordings"))

		assert.Error(t, err)
	})
}

func TestServer_handleTranscriptResource(t *testing.T) {
	ctx := context.Background()
	server, err := newTestServer(&mockLibraryService{recordings: []*domain.Recording{testRecording()}})
	require.NoError(t, err)

	t.Run("renders segments", func(t *testing.T) {
		uri := "consultsync://recordings/rec-1/transcript"
		result, err := server.handleTranscriptResource(ctx, readRequest(uri))

		require.NoError(t, err)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Contains(t, result.Contents[0].Text, "[0:04] Mr. McKay (segment-2): A fever since Tuesday.\n")
		assert.Contains(t, result.Contents[0].Text, "[0:12] Dr. Smith (segment-3): Any stomach pain?\n")
	})

	t.Run("unknown recording", func(t *testing.T) {
		_, err := server.handleTranscriptResource(ctx, readRequest("consultsync://recordings/zzz/transcript"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleTranscriptResource(ctx, readRequest("consultsync://recordings/transcript"))
		assert.Error(t, err)
	})
}

func TestServer_handleInsightsResource(t *testing.T) {
	ctx := context.Background()
	server, err := newTestServer(&mockLibraryService{recordings: []*domain.Recording{testRecording()}})
	require.NoError(t, err)

	result, err := server.handleInsightsResource(ctx, readRequest("consultsync://recordings/rec-1/insights"))

	require.NoError(t, err)
	text := result.Contents[0].Text
	assert.Contains(t, text, `"category": "Symptoms"`)
	assert.Contains(t, text, `"category": "Plan"`)
	assert.Contains(t, text, `"segment_ids": [`)
	assert.Less(t, strings.Index(text, "Symptoms"), strings.Index(text, "Plan"), "categories keep first-appearance order")
}
