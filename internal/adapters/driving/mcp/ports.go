package mcp

import (
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library lists and loads recordings.
	Library driving.LibraryService

	// Sessions opens playback sessions.
	Sessions driving.SessionFactory
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	if p.Sessions == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
