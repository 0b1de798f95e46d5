// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/domain"
)

// RecordingList displays library recordings in a navigable list.
type RecordingList struct {
	recordings []domain.RecordingSummary
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewRecordingList creates a new recording list component.
func NewRecordingList(s *styles.Styles) *RecordingList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordingList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RecordingList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordingList) Update(msg tea.Msg) (*RecordingList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *RecordingList) View() string {
	if len(r.recordings) == 0 {
		return r.styles.Muted.Render("No recordings. Press i to import a bundle.")
	}

	lines := make([]string, 0, len(r.recordings)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Recordings (%d)", len(r.recordings))), "")

	// Each entry takes two lines.
	visibleCount := (r.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.recordings) {
		end = len(r.recordings)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecording(i, &r.recordings[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *RecordingList) renderRecording(index int, rec *domain.RecordingSummary) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := rec.Title
	if title == "" {
		title = "(Untitled)"
	}
	maxTitleLen := r.width - 12
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	duration := domain.FormatClock(rec.Duration)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, duration))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Muted.Render(duration)
	}

	detail := fmt.Sprintf("    %s · %d segments · %d insights", rec.ID, rec.SegmentCount, rec.InsightCount)
	if !rec.ImportedAt.IsZero() {
		detail += " · imported " + rec.ImportedAt.Local().Format("2006-01-02 15:04")
	}

	return titleLine + "\n" + r.styles.Muted.Render(detail)
}

// SetRecordings replaces the list contents. The selection is kept when it
// is still in range.
func (r *RecordingList) SetRecordings(recordings []domain.RecordingSummary) {
	r.recordings = recordings
	if r.selected >= len(recordings) {
		r.selected = 0
	}
}

// Recordings returns the current recordings.
func (r *RecordingList) Recordings() []domain.RecordingSummary {
	return r.recordings
}

// Selected returns the index of the selected recording.
func (r *RecordingList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordingList) SetSelected(index int) {
	if index >= 0 && index < len(r.recordings) {
		r.selected = index
	}
}

// SelectedRecording returns the selected recording, or nil if none.
func (r *RecordingList) SelectedRecording() *domain.RecordingSummary {
	if len(r.recordings) == 0 || r.selected < 0 || r.selected >= len(r.recordings) {
		return nil
	}
	return &r.recordings[r.selected]
}

// MoveUp moves selection up.
func (r *RecordingList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordingList) MoveDown() {
	if r.selected < len(r.recordings)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordingList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of recordings.
func (r *RecordingList) Count() int {
	return len(r.recordings)
}

// IsEmpty returns whether the list is empty.
func (r *RecordingList) IsEmpty() bool {
	return len(r.recordings) == 0
}
