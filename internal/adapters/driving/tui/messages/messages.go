// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewLibrary lists imported recordings.
	ViewLibrary
	// ViewPlayer is the synchronised player for one recording.
	ViewPlayer
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewLibrary:
		return "library"
	case ViewPlayer:
		return "player"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// RecordingsLoaded carries the library listing.
type RecordingsLoaded struct {
	Recordings []domain.RecordingSummary
	Err        error
}

// RecordingImported signals a bundle import finished.
type RecordingImported struct {
	Recording *domain.Recording
	Err       error
}

// RecordingRemoved signals a recording was removed from the library.
type RecordingRemoved struct {
	ID  string
	Err error
}

// RecordingSelected asks the app to open a recording in the player.
type RecordingSelected struct {
	ID string
}

// SessionOpened carries a freshly opened playback session.
type SessionOpened struct {
	Session  driving.PlaybackSession
	Waveform []float64
	Err      error
}

// PlaybackUpdated carries the latest published playback state of a session.
type PlaybackUpdated struct {
	SessionID string
	State     domain.PlaybackState
}

// SubscriptionClosed signals that the session stopped publishing.
type SubscriptionClosed struct {
	SessionID string
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
