// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// Theme is the colour palette of the player.
type Theme struct {
	// Chrome.
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color

	// Status.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Speaker labels by role.
	Clinician lipgloss.Color
	Patient   lipgloss.Color

	// Waveform bars either side of the playhead.
	Played   lipgloss.Color
	Unplayed lipgloss.Color

	// Highlight backs segments cited by the selected insight.
	Highlight lipgloss.Color
}

// DefaultTheme is a dark palette with a clinical teal accent.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#0D9488"),
		Secondary:  lipgloss.Color("#5EEAD4"),
		Background: lipgloss.Color("#0F172A"),
		Foreground: lipgloss.Color("#E2E8F0"),
		Muted:      lipgloss.Color("#64748B"),
		Border:     lipgloss.Color("#334155"),
		Success:    lipgloss.Color("#4ADE80"),
		Warning:    lipgloss.Color("#FACC15"),
		Error:      lipgloss.Color("#F87171"),
		Clinician:  lipgloss.Color("#60A5FA"),
		Patient:    lipgloss.Color("#FB923C"),
		Played:     lipgloss.Color("#14B8A6"),
		Unplayed:   lipgloss.Color("#475569"),
		Highlight:  lipgloss.Color("#1E3A3A"),
	}
}

// Styles are the lipgloss styles built from a Theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Border frames a panel; FocusedBorder frames the one with focus.
	Border        lipgloss.Style
	FocusedBorder lipgloss.Style

	Clinician lipgloss.Style
	Patient   lipgloss.Style

	// ActiveSegment is the segment under the playhead or the selection
	// anchor. Highlighted is the rest of the highlight set.
	ActiveSegment lipgloss.Style
	Highlighted   lipgloss.Style
	SmallTalk     lipgloss.Style
	Silence       lipgloss.Style
	ActiveWord    lipgloss.Style

	// Badge marks medical terms.
	Badge         lipgloss.Style
	Category      lipgloss.Style
	ActiveInsight lipgloss.Style

	Played   lipgloss.Style
	Unplayed lipgloss.Style
	Playhead lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Background).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		FocusedBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),

		Clinician: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Clinician),

		Patient: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Patient),

		ActiveSegment: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Highlighted: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Highlight),

		SmallTalk: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Muted),

		Silence: lipgloss.NewStyle().
			Faint(true).
			Foreground(theme.Muted),

		ActiveWord: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(theme.Secondary),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Success).
			Padding(0, 1),

		Category: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		ActiveInsight: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Highlight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary),

		Played: lipgloss.NewStyle().
			Foreground(theme.Played),

		Unplayed: lipgloss.NewStyle().
			Foreground(theme.Unplayed),

		Playhead: lipgloss.NewStyle().
			Foreground(theme.Error),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Speaker returns the name style for a speaker role.
func (s *Styles) Speaker(role domain.Role) lipgloss.Style {
	if role == domain.RolePatient {
		return s.Patient
	}
	return s.Clinician
}
