package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/views/library"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/views/player"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	libraryView  *library.View
	playerView   *player.View
	settingsView *settings.View

	// initial is opened in the player on start, skipping the menu.
	initial *domain.Recording

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		libraryView:  library.NewView(s, ports.Library),
		playerView:   player.NewView(s, km),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.playerView.SetContext(ctx)
	return a
}

// WithRecording opens rec in the player as soon as the program starts.
func (a *App) WithRecording(rec *domain.Recording) *App {
	a.initial = rec
	a.currentView = messages.ViewPlayer
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("consultsync"),
	}
	if a.initial != nil {
		cmds = append(cmds, a.openRecording(a.initial))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closePlayer()
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.err = nil
		switch msg.View {
		case messages.ViewLibrary:
			return a, a.libraryView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewPlayer, messages.ViewHelp:
		}
		return a, nil

	case messages.RecordingSelected:
		return a, a.loadAndOpen(msg.ID)

	case messages.SessionOpened:
		if msg.Err != nil {
			a.err = msg.Err
			if a.currentView == messages.ViewPlayer {
				a.currentView = messages.ViewLibrary
				return a, a.libraryView.Init()
			}
			return a, nil
		}
		a.err = nil
		a.currentView = messages.ViewPlayer
		logger.Debug("tui: opened session %s", msg.Session.ID())
		return a, a.playerView.Open(msg.Session, msg.Waveform)

	case messages.PlaybackUpdated, messages.SubscriptionClosed, spinner.TickMsg, tea.MouseMsg:
		a.playerView, cmd = a.playerView.Update(msg)
		return a, cmd

	case messages.RecordingsLoaded, messages.RecordingImported, messages.RecordingRemoved:
		a.libraryView, cmd = a.libraryView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.closePlayer()
		return a, tea.Quit
	}

	return a, nil
}

// routeKey forwards a key press to the active view.
func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewPlayer:
		a.playerView, cmd = a.playerView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// loadAndOpen fetches a recording from the library and opens it.
func (a *App) loadAndOpen(id string) tea.Cmd {
	return func() tea.Msg {
		rec, err := a.ports.Library.Get(a.ctx, id)
		if err != nil {
			return messages.SessionOpened{Err: fmt.Errorf("load recording %s: %w", id, err)}
		}
		return a.openRecording(rec)()
	}
}

// openRecording opens a playback session and computes the waveform.
func (a *App) openRecording(rec *domain.Recording) tea.Cmd {
	return func() tea.Msg {
		session, err := a.ports.Sessions.Open(rec)
		if err != nil {
			return messages.SessionOpened{Err: err}
		}
		peaks := a.ports.Library.Waveform(a.ctx, rec, a.waveformBars())
		return messages.SessionOpened{Session: session, Waveform: peaks}
	}
}

func (a *App) waveformBars() int {
	bars := domain.DefaultAppSettings().Player.WaveformBars
	if a.ports.Settings == nil {
		return bars
	}
	if s, err := a.ports.Settings.Get(); err == nil && s.Player.WaveformBars > 0 {
		bars = s.Player.WaveformBars
	}
	return bars
}

func (a *App) closePlayer() {
	if err := a.playerView.Close(); err != nil {
		logger.Warn("tui: closing session: %v", err)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var out string
	switch a.currentView {
	case messages.ViewLibrary:
		out = a.libraryView.View()
	case messages.ViewPlayer:
		out = a.playerView.View()
	case messages.ViewSettings:
		out = a.settingsView.View()
	case messages.ViewHelp:
		out = a.viewHelp()
	case messages.ViewMenu:
		out = a.menuView.View()
	default:
		out = a.menuView.View()
	}

	if a.err != nil {
		out += "\n\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return out
}

// viewHelp renders the key bindings grouped as in the full help.
func (a *App) viewHelp() string {
	titles := []string{"Playback", "Speed and volume", "Transcript and insights", "Library", "General"}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for i, group := range a.keymap.FullHelp() {
		if i < len(titles) {
			b.WriteString(a.styles.Subtitle.Render(titles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Click the waveform to seek."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.closePlayer()

	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(a.ctx),
	)
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Player returns the player view.
func (a *App) Player() *player.View {
	return a.playerView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.libraryView.SetDimensions(width, height)
	a.playerView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
