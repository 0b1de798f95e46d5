// Package library provides the recording library view for the TUI.
package library

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// View lists imported recordings and imports new bundles.
type View struct {
	styles         *styles.Styles
	libraryService driving.LibraryService

	list      *list.RecordingList
	pathInput *input.PathInput
	importing bool

	notice  string
	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new library view.
func NewView(s *styles.Styles, libraryService driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		libraryService: libraryService,
		list:           list.NewRecordingList(s),
		pathInput:      input.NewPathInput(s, "Import:"),
	}
}

// Init initialises the view and loads recordings.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadRecordings()
}

// loadRecordings returns a command that lists the library.
func (v *View) loadRecordings() tea.Cmd {
	return func() tea.Msg {
		if v.libraryService == nil {
			return messages.RecordingsLoaded{Err: fmt.Errorf("library service not available")}
		}

		recordings, err := v.libraryService.List(context.Background())
		return messages.RecordingsLoaded{Recordings: recordings, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.importing {
			return v.handleImportKeys(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.RecordingsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.list.SetRecordings(msg.Recordings)
			v.err = nil
		}
		return v, nil

	case messages.RecordingImported:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Imported %q", msg.Recording.Title)
		return v, v.loadRecordings()

	case messages.RecordingRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Removed " + msg.ID
		return v, v.loadRecordings()
	}

	if v.importing {
		var cmd tea.Cmd
		v.pathInput, cmd = v.pathInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKeyMsg handles key presses while browsing.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		v.list, _ = v.list.Update(msg)
	case "enter":
		if rec := v.list.SelectedRecording(); rec != nil {
			id := rec.ID
			return v, func() tea.Msg {
				return messages.RecordingSelected{ID: id}
			}
		}
	case "i":
		v.importing = true
		v.notice = ""
		v.pathInput.Reset()
		return v, v.pathInput.Focus()
	case "d", "delete":
		if rec := v.list.SelectedRecording(); rec != nil {
			return v, v.removeRecording(rec.ID)
		}
	case "r":
		v.loading = true
		return v, v.loadRecordings()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleImportKeys handles key presses while the path input is open.
func (v *View) handleImportKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.importing = false
		v.pathInput.Blur()
		return v, nil
	case tea.KeyEnter:
		path := v.pathInput.Value()
		if path == "" {
			return v, nil
		}
		v.importing = false
		v.pathInput.Blur()
		return v, v.importRecording(path)
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// importRecording returns a command that imports a bundle.
func (v *View) importRecording(path string) tea.Cmd {
	return func() tea.Msg {
		if v.libraryService == nil {
			return messages.RecordingImported{Err: fmt.Errorf("library service not available")}
		}

		rec, err := v.libraryService.Import(context.Background(), path)
		return messages.RecordingImported{Recording: rec, Err: err}
	}
}

// removeRecording returns a command that removes a recording.
func (v *View) removeRecording(id string) tea.Cmd {
	return func() tea.Msg {
		if v.libraryService == nil {
			return messages.RecordingRemoved{ID: id, Err: fmt.Errorf("library service not available")}
		}

		err := v.libraryService.Remove(context.Background(), id)
		return messages.RecordingRemoved{ID: id, Err: err}
	}
}

// View renders the library view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Library"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading recordings..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.list.View())
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.importing {
		b.WriteString(v.pathInput.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] import  [esc] cancel"))
		return b.String()
	}

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] play  [i] import  [d] remove  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-8)
	v.pathInput.SetWidth(width)
}

// SelectedIndex returns the currently selected recording index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Count returns the number of listed recordings.
func (v *View) Count() int {
	return v.list.Count()
}

// Importing reports whether the import prompt is open.
func (v *View) Importing() bool {
	return v.importing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
