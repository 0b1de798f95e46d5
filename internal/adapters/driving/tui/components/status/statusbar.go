// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateLoading   State = "loading"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateBuffering State = "buffering"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays playback status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	state    State
	message  string
	playback domain.PlaybackState
	hasState bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the buffering spinner. Ticks stop once buffering ends.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok && s.state == StateBuffering {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(tick)
		return s, cmd
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and playback readout.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateBuffering:
		return s.spinner.View() + " " + s.styles.Muted.Render("Buffering ") + s.readout()
	case StatePlaying:
		return s.styles.Success.Render("▶ ") + s.readout()
	case StatePaused:
		return s.styles.Normal.Render("❚❚ ") + s.readout()
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) readout() string {
	if !s.hasState {
		return ""
	}
	p := s.playback
	text := fmt.Sprintf("%s / %s  %gx  vol %d%%",
		domain.FormatClock(p.CurrentTime),
		domain.FormatClock(p.Duration),
		p.Rate,
		int(p.Volume*100+0.5),
	)
	if p.LastError != nil {
		text += "  " + s.styles.Warning.Render(p.LastError.Error())
	}
	return s.styles.Normal.Render(text)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StatePlaying, StatePaused, StateBuffering:
		bindings = s.keymap.PlayerHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetPlayback updates the readout from a published state and derives the
// bar state. It returns a command that starts the spinner when buffering
// begins.
func (s *Bar) SetPlayback(st domain.PlaybackState) tea.Cmd {
	s.playback = st
	s.hasState = true

	prev := s.state
	switch {
	case st.IsBuffering:
		s.state = StateBuffering
	case st.IsPlaying:
		s.state = StatePlaying
	default:
		s.state = StatePaused
	}

	if s.state == StateBuffering && prev != StateBuffering {
		return s.spinner.Tick
	}
	return nil
}

// Playback returns the last playback state shown.
func (s *Bar) Playback() domain.PlaybackState {
	return s.playback
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.playback = domain.PlaybackState{}
	s.hasState = false
}
