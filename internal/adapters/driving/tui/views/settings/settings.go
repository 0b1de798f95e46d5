// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionRate
	SectionVolume
	SectionStorage
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

// volumeLevels are the volumes offered by the volume section.
var volumeLevels = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved. New values apply to the next recording you open."
		v.section = SectionOverview
		v.selected = 0
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.selected = 0
		return v, nil
	}

	if v.settings == nil {
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < v.optionCount()-1 {
			v.selected++
		}
	case keyEnter:
		return v, v.choose()
	}
	return v, nil
}

func (v *View) optionCount() int {
	switch v.section {
	case SectionRate:
		return len(domain.PlaybackRates)
	case SectionVolume:
		return len(volumeLevels)
	case SectionStorage:
		return len(domain.AllStoreBackends())
	case SectionOverview:
	}
	return 3
}

// choose opens a section from the overview or saves the selected option.
func (v *View) choose() tea.Cmd {
	switch v.section {
	case SectionOverview:
		v.notice = ""
		switch v.selected {
		case 0:
			v.section = SectionRate
			v.selected = nearest(domain.PlaybackRates, v.settings.Player.Rate)
		case 1:
			v.section = SectionVolume
			v.selected = nearest(volumeLevels, v.settings.Player.Volume)
		case 2:
			v.section = SectionStorage
			v.selected = v.backendIndex()
		}
		return nil

	case SectionRate:
		rate := domain.PlaybackRates[v.selected]
		return v.save(func(s driving.SettingsService) error { return s.SetRate(rate) })

	case SectionVolume:
		volume := volumeLevels[v.selected]
		return v.save(func(s driving.SettingsService) error { return s.SetVolume(volume) })

	case SectionStorage:
		backend := domain.AllStoreBackends()[v.selected]
		return v.save(func(s driving.SettingsService) error { return s.SetStoreBackend(backend) })
	}
	return nil
}

func (v *View) save(fn func(driving.SettingsService) error) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: fn(v.settingsService)}
	}
}

func (v *View) backendIndex() int {
	for i, b := range domain.AllStoreBackends() {
		if b == v.settings.Storage.Backend {
			return i
		}
	}
	return 0
}

// nearest returns the index of the option closest to value.
func nearest(options []float64, value float64) int {
	best := 0
	for i, o := range options {
		if abs(o-value) < abs(options[best]-value) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionRate:
		b.WriteString(v.renderOptions("Initial Playback Rate", formatRates()))
	case SectionVolume:
		b.WriteString(v.renderOptions("Initial Volume", formatVolumes()))
	case SectionStorage:
		b.WriteString(v.renderOptions("Library Store", formatBackends()))
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	items := []struct {
		label string
		value string
	}{
		{label: "Playback Rate", value: fmt.Sprintf("%gx", v.settings.Player.Rate)},
		{label: "Volume", value: formatVolume(v.settings.Player.Volume)},
		{label: "Library Store", value: v.settings.Storage.Backend.Description()},
	}

	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, v.renderLine(i, fmt.Sprintf("%s: %s", item.label, item.value)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (v *View) renderOptions(title string, options []string) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")
	for i, opt := range options {
		b.WriteString(v.renderLine(i, opt))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderLine(index int, text string) string {
	if index == v.selected {
		return v.styles.Selected.Render("> " + text)
	}
	return v.styles.Normal.Render("  " + text)
}

func (v *View) renderHelp() string {
	if v.section == SectionOverview {
		return v.styles.Help.Render("[j/k] navigate  [enter] change  [esc] back")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] save  [esc] cancel")
}

func formatRates() []string {
	out := make([]string, 0, len(domain.PlaybackRates))
	for _, r := range domain.PlaybackRates {
		out = append(out, fmt.Sprintf("%gx", r))
	}
	return out
}

func formatVolumes() []string {
	out := make([]string, 0, len(volumeLevels))
	for _, l := range volumeLevels {
		out = append(out, formatVolume(l))
	}
	return out
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}

func formatBackends() []string {
	backends := domain.AllStoreBackends()
	out := make([]string, 0, len(backends))
	for _, b := range backends {
		out = append(out, b.Description())
	}
	return out
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset returns the view to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
	v.notice = ""
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the selected index within the section.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
