// Package tui provides the interactive terminal player for consultsync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library lists, imports and resolves recordings.
	Library driving.LibraryService

	// Sessions opens playback sessions.
	Sessions driving.SessionFactory

	// Settings manages application settings. Optional; the settings view
	// reports it as unavailable when nil.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(library driving.LibraryService, sessions driving.SessionFactory) *Ports {
	return &Ports{
		Library:  library,
		Sessions: sessions,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	if p.Sessions == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
