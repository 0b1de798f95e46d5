package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/consultsync/internal/logger"
)

// Version is reported to assistants in the initialize handshake.
const Version = "0.1.0"

// shutdownGrace bounds how long RunHTTP waits for in-flight tool calls.
const shutdownGrace = 5 * time.Second

// instructions tells assistants how the tools fit together.
const instructions = `Open a consultation with open_recording to get a session_id,
then drive playback with seek, select_segment, select_summary_point and
play_range. Every call returns the highlighted transcript state. Close
sessions with close_session when finished.`

// Server exposes the consultation library and playback sessions as MCP
// tools and resources. Sessions opened by a client live in the server's
// session table until closed or until the server stops.
type Server struct {
	ports    *Ports
	server   *mcp.Server
	sessions *sessionTable
}

// NewServer registers the playback tools and library resources.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "consultsync", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		sessions: newSessionTable(),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client over stdin/stdout until ctx ends or the client
// disconnects. Open sessions are closed on return.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP endpoint. Every HTTP client shares
// the same session table.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves Handler on addr until ctx ends, then drains requests for
// up to shutdownGrace. Open sessions are closed on return.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Warn("mcp: draining HTTP clients: %v", err)
		}
	}()

	logger.Info("mcp: playback tools listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

// Close releases every playback session opened through the server.
func (s *Server) Close() {
	if err := s.sessions.closeAll(); err != nil {
		logger.Warn("mcp: closing sessions: %v", err)
	}
}
