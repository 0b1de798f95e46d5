package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for consultsync resources.
	uriScheme = "consultsync://"

	recordingsPrefix = uriScheme + "recordings/"
	transcriptSuffix = "/transcript"
	insightsSuffix   = "/insights"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "recordings",
		Name:        "recordings",
		Description: "Consultations in the library",
		MIMEType:    "application/json",
	}, s.handleRecordingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: recordingsPrefix + "{recordingId}" + transcriptSuffix,
		Name:        "recording-transcript",
		Description: "Timestamped transcript of a consultation",
		MIMEType:    "text/plain",
	}, s.handleTranscriptResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: recordingsPrefix + "{recordingId}" + insightsSuffix,
		Name:        "recording-insights",
		Description: "Clinical insights of a consultation grouped by category",
		MIMEType:    "application/json",
	}, s.handleInsightsResource)
}

// handleRecordingsResource returns the library listing.
func (s *Server) handleRecordingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, listing, err := s.handleListRecordings(ctx, nil, ListRecordingsInput{})
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, listing.Recordings)
}

// handleTranscriptResource renders a recording's transcript, one segment
// per line.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rec, err := s.recordingFor(ctx, req.Params.URI, transcriptSuffix)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, seg := range segmentsOutput(rec) {
		fmt.Fprintf(&b, "[%s] %s (%s): %s\n", domain.FormatClock(seg.Start), seg.Speaker, seg.ID, seg.Text)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

// handleInsightsResource returns a recording's insights grouped by category.
func (s *Server) handleInsightsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rec, err := s.recordingFor(ctx, req.Params.URI, insightsSuffix)
	if err != nil {
		return nil, err
	}

	type group struct {
		Category string          `json:"category"`
		Points   []InsightOutput `json:"points"`
	}

	groups := domain.GroupByCategory(rec.Summary)
	out := make([]group, len(groups))
	for i, g := range groups {
		out[i] = group{Category: g.Category, Points: insightsOutput([]domain.InsightGroup{g})}
	}
	return jsonResource(req.Params.URI, out)
}

// recordingFor loads the recording named in a templated URI.
func (s *Server) recordingFor(ctx context.Context, uri, suffix string) (*domain.Recording, error) {
	id := extractRecordingID(uri, suffix)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	rec, err := s.ports.Library.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recording: %w", err)
	}
	return rec, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordingID extracts the id from a URI like
// consultsync://recordings/{recordingId}/transcript.
func extractRecordingID(uri, suffix string) string {
	if !strings.HasPrefix(uri, recordingsPrefix) {
		return ""
	}

	rest := strings.TrimPrefix(uri, recordingsPrefix)
	if !strings.HasSuffix(rest, suffix) {
		return ""
	}

	id := strings.TrimSuffix(rest, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
