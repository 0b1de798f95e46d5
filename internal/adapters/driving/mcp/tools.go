package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// ListRecordingsInput is the input schema for the list_recordings tool.
type ListRecordingsInput struct{}

// ListRecordingsOutput is the output schema for the list_recordings tool.
type ListRecordingsOutput struct {
	Recordings []RecordingOutput `json:"recordings"`
	Count      int               `json:"count"`
}

// RecordingOutput describes a recording in the library.
type RecordingOutput struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	SegmentCount int     `json:"segment_count"`
	InsightCount int     `json:"insight_count"`
}

// OpenRecordingInput is the input schema for the open_recording tool.
type OpenRecordingInput struct {
	Recording string `json:"recording" jsonschema:"library id of the recording, or the path of a bundle file"`
}

// OpenRecordingOutput is the output schema for the open_recording tool.
type OpenRecordingOutput struct {
	SessionID string          `json:"session_id"`
	Recording RecordingOutput `json:"recording"`
	Segments  []SegmentOutput `json:"segments"`
	Insights  []InsightOutput `json:"insights"`
	State     StateOutput     `json:"state"`
}

// SegmentOutput is a transcript segment.
type SegmentOutput struct {
	ID      string  `json:"id"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// InsightOutput is a summary point with its evidence.
type InsightOutput struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Text       string   `json:"text"`
	SegmentIDs []string `json:"segment_ids,omitempty"`
}

// SessionInput identifies an open playback session.
type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"session id returned by open_recording"`
}

// SeekInput is the input schema for the seek tool.
type SeekInput struct {
	SessionID string  `json:"session_id" jsonschema:"session id returned by open_recording"`
	Time      float64 `json:"time" jsonschema:"position in seconds; clamped to the recording"`
}

// SelectSegmentInput is the input schema for the select_segment tool.
type SelectSegmentInput struct {
	SessionID string `json:"session_id" jsonschema:"session id returned by open_recording"`
	SegmentID string `json:"segment_id" jsonschema:"transcript segment to jump to"`
}

// SelectSummaryPointInput is the input schema for the select_summary_point tool.
type SelectSummaryPointInput struct {
	SessionID string `json:"session_id" jsonschema:"session id returned by open_recording"`
	PointID   string `json:"point_id" jsonschema:"insight whose evidence should be highlighted"`
}

// PlayRangeInput is the input schema for the play_range tool.
type PlayRangeInput struct {
	SessionID string  `json:"session_id" jsonschema:"session id returned by open_recording"`
	Start     float64 `json:"start" jsonschema:"range start in seconds"`
	End       float64 `json:"end" jsonschema:"range end in seconds; playback pauses here"`
}

// StateOutput is the playback and highlight state of a session.
type StateOutput struct {
	SessionID             string   `json:"session_id"`
	CurrentTime           float64  `json:"current_time"`
	Duration              float64  `json:"duration"`
	IsPlaying             bool     `json:"is_playing"`
	IsBuffering           bool     `json:"is_buffering"`
	Rate                  float64  `json:"rate"`
	Volume                float64  `json:"volume"`
	RangeActive           bool     `json:"range_active"`
	Error                 string   `json:"error,omitempty"`
	ActiveWord            string   `json:"active_word,omitempty"`
	ActiveSegmentID       string   `json:"active_segment_id,omitempty"`
	HighlightedSegmentIDs []string `json:"highlighted_segment_ids,omitempty"`
	ActiveSummaryPointID  string   `json:"active_summary_point_id,omitempty"`
}

// CloseSessionOutput is the output schema for the close_session tool.
type CloseSessionOutput struct {
	Closed bool `json:"closed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_recordings",
		Description: "List the consultations in the library",
	}, s.handleListRecordings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "open_recording",
		Description: "Open a consultation for playback and return its transcript, insights and a session id",
	}, s.handleOpenRecording)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "playback_state",
		Description: "Read the playback position and highlighted transcript of a session",
	}, s.handlePlaybackState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "seek",
		Description: "Move playback to a time in seconds",
	}, s.handleSeek)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_segment",
		Description: "Jump to a transcript segment and highlight it",
	}, s.handleSelectSegment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_summary_point",
		Description: "Highlight the transcript evidence for an insight and seek to its first segment",
	}, s.handleSelectSummaryPoint)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "play_range",
		Description: "Play from start to end seconds, then pause",
	}, s.handlePlayRange)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "close_session",
		Description: "Close a playback session",
	}, s.handleCloseSession)
}

func (s *Server) handleListRecordings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListRecordingsInput,
) (*mcp.CallToolResult, ListRecordingsOutput, error) {
	recordings, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, ListRecordingsOutput{}, fmt.Errorf("listing recordings: %w", err)
	}

	output := ListRecordingsOutput{
		Recordings: make([]RecordingOutput, len(recordings)),
		Count:      len(recordings),
	}
	for i, r := range recordings {
		output.Recordings[i] = RecordingOutput{
			ID:           r.ID,
			Title:        r.Title,
			Duration:     r.Duration,
			SegmentCount: r.SegmentCount,
			InsightCount: r.InsightCount,
		}
	}
	return nil, output, nil
}

func (s *Server) handleOpenRecording(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OpenRecordingInput,
) (*mcp.CallToolResult, OpenRecordingOutput, error) {
	rec, err := s.ports.Library.Resolve(ctx, input.Recording)
	if err != nil {
		return nil, OpenRecordingOutput{}, err
	}

	session, err := s.ports.Sessions.Open(rec)
	if err != nil {
		return nil, OpenRecordingOutput{}, fmt.Errorf("opening session: %w", err)
	}
	s.sessions.add(session)
	logger.Debug("mcp: opened session %s for %s", session.ID(), rec.ID)

	output := OpenRecordingOutput{
		SessionID: session.ID(),
		Recording: RecordingOutput{
			ID:           rec.ID,
			Title:        rec.Title,
			Duration:     rec.EffectiveDuration(),
			SegmentCount: len(rec.Segments),
			InsightCount: len(rec.Summary),
		},
		Segments: segmentsOutput(rec),
		Insights: insightsOutput(session.Insights()),
		State:    stateOutput(session),
	}
	return nil, output, nil
}

func (s *Server) handlePlaybackState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return s.withSession(input.SessionID, func(driving.PlaybackSession) error { return nil })
}

func (s *Server) handleSeek(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SeekInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return s.withSession(input.SessionID, func(session driving.PlaybackSession) error {
		session.Seek(input.Time)
		return nil
	})
}

func (s *Server) handleSelectSegment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SelectSegmentInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return s.withSession(input.SessionID, func(session driving.PlaybackSession) error {
		return session.SelectSegment(input.SegmentID)
	})
}

func (s *Server) handleSelectSummaryPoint(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SelectSummaryPointInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return s.withSession(input.SessionID, func(session driving.PlaybackSession) error {
		return session.SelectSummaryPoint(input.PointID)
	})
}

func (s *Server) handlePlayRange(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PlayRangeInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return s.withSession(input.SessionID, func(session driving.PlaybackSession) error {
		_, err := session.PlayRange(input.Start, input.End)
		return err
	})
}

func (s *Server) handleCloseSession(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, CloseSessionOutput, error) {
	if err := s.sessions.remove(input.SessionID); err != nil {
		return nil, CloseSessionOutput{}, err
	}
	return nil, CloseSessionOutput{Closed: true}, nil
}

// withSession runs fn against the named session and returns its state.
func (s *Server) withSession(id string, fn func(driving.PlaybackSession) error) (*mcp.CallToolResult, StateOutput, error) {
	session, err := s.sessions.get(id)
	if err != nil {
		return nil, StateOutput{}, err
	}
	if err := fn(session); err != nil {
		return nil, StateOutput{}, err
	}
	return nil, stateOutput(session), nil
}

func stateOutput(session driving.PlaybackSession) StateOutput {
	st := session.State()
	out := StateOutput{
		SessionID:             session.ID(),
		CurrentTime:           st.CurrentTime,
		Duration:              st.Duration,
		IsPlaying:             st.IsPlaying,
		IsBuffering:           st.IsBuffering,
		Rate:                  st.Rate,
		Volume:                st.Volume,
		RangeActive:           st.RangeActive,
		ActiveSegmentID:       st.ActiveSegmentID,
		HighlightedSegmentIDs: st.HighlightedSegmentIDs,
		ActiveSummaryPointID:  st.ActiveSummaryPointID,
	}
	if st.LastError != nil {
		out.Error = st.LastError.Error()
	}
	if words := session.Recording().Words; st.HasActiveWord() && st.ActiveWordIndex < len(words) {
		out.ActiveWord = words[st.ActiveWordIndex].Text
	}
	return out
}

func segmentsOutput(rec *domain.Recording) []SegmentOutput {
	out := make([]SegmentOutput, len(rec.Segments))
	for i, seg := range rec.Segments {
		speaker := seg.SpeakerID
		if sp, ok := rec.Speaker(seg.SpeakerID); ok && sp.Name != "" {
			speaker = sp.Name
		}
		out[i] = SegmentOutput{
			ID:      seg.ID,
			Speaker: speaker,
			Text:    seg.Text,
			Start:   seg.Start,
			End:     seg.End,
		}
	}
	return out
}

func insightsOutput(groups []domain.InsightGroup) []InsightOutput {
	var out []InsightOutput
	for _, g := range groups {
		for _, p := range g.Points {
			out = append(out, InsightOutput{
				ID:         p.ID,
				Category:   g.Category,
				Text:       p.Text,
				SegmentIDs: p.RelatedSegmentIDs,
			})
		}
	}
	return out
}
