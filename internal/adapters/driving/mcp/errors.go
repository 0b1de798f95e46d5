// Package mcp provides an MCP (Model Context Protocol) server adapter for
// consultsync. It lets AI assistants browse the consultation library and
// drive playback sessions: seek, select transcript segments and insights,
// and read back the synchronised highlight state.
package mcp

import "errors"

var (
	// ErrMissingLibraryService is returned when the library service is not provided.
	ErrMissingLibraryService = errors.New("mcp: library service is required")

	// ErrMissingSessionFactory is returned when the session factory is not provided.
	ErrMissingSessionFactory = errors.New("mcp: session factory is required")

	// ErrUnknownSession is returned for a session id the server did not open.
	ErrUnknownSession = errors.New("mcp: unknown session")
)
