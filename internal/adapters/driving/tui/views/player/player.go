// Package player provides the synchronised player view for the TUI: a
// waveform timeline, the transcript and the insights panel, all driven by
// one playback session.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/components/waveform"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/normalisers"
)

// redrawInterval caps how often published states reach the renderer.
const redrawInterval = time.Second / 30

// volumeStep is the volume change per key press.
const volumeStep = 0.1

// WaveformRow is the screen row of the waveform bars.
const WaveformRow = 2

// headerLines counts the rows above the panels.
const headerLines = 7

// Panel identifies which panel has keyboard focus.
type Panel int

const (
	// PanelTranscript is the segment list.
	PanelTranscript Panel = iota
	// PanelInsights is the summary point list.
	PanelInsights
)

// View is the player view for one open session.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	limiter *rate.Limiter

	session driving.PlaybackSession
	updates <-chan domain.PlaybackState
	cancel  func()
	state   domain.PlaybackState

	waveform *waveform.Waveform
	status   *status.Bar

	segIndex map[string]int
	points   []domain.SummaryPoint
	groups   []domain.InsightGroup

	focus         Panel
	segCursor     int
	insightCursor int
	activeSegment string

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates an empty player view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		limiter:  rate.NewLimiter(rate.Every(redrawInterval), 1),
		waveform: waveform.New(s, nil),
		status:   status.NewBar(s, km),
		width:    80,
		height:   24,
	}
}

// SetContext sets the context the state pump waits on.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Open attaches a session, replacing and closing any previous one, and
// returns the command that starts the state pump.
func (v *View) Open(session driving.PlaybackSession, peaks []float64) tea.Cmd {
	_ = v.Close()

	v.session = session
	v.err = nil
	v.focus = PanelTranscript
	v.segCursor = 0
	v.insightCursor = 0
	v.activeSegment = ""

	rec := session.Recording()
	v.segIndex = make(map[string]int, len(rec.Segments))
	for i, seg := range rec.Segments {
		v.segIndex[seg.ID] = i
	}
	v.groups = session.Insights()
	v.points = v.points[:0]
	for _, g := range v.groups {
		v.points = append(v.points, g.Points...)
	}

	v.waveform.SetPeaks(peaks)
	v.updates, v.cancel = session.Subscribe()

	return tea.Batch(v.refresh(), v.waitForState())
}

// Close detaches and closes the session. It is safe to call without one.
func (v *View) Close() error {
	if v.session == nil {
		return nil
	}
	if v.cancel != nil {
		v.cancel()
	}
	err := v.session.Close()
	v.session = nil
	v.updates = nil
	v.cancel = nil
	return err
}

// Init initialises the view. The state pump belongs to Open, which starts
// exactly one per session.
func (v *View) Init() tea.Cmd {
	return nil
}

// waitForState returns a command that blocks for the next published state,
// waits for the redraw limiter, then delivers only the latest state.
func (v *View) waitForState() tea.Cmd {
	if v.session == nil || v.updates == nil {
		return nil
	}

	id := v.session.ID()
	updates := v.updates
	limiter := v.limiter
	ctx := v.ctx

	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return messages.SubscriptionClosed{SessionID: id}
		}
		if err := limiter.Wait(ctx); err != nil {
			return messages.SubscriptionClosed{SessionID: id}
		}
		select {
		case latest, open := <-updates:
			if open {
				st = latest
			}
		default:
		}
		return messages.PlaybackUpdated{SessionID: id, State: st}
	}
}

// Update handles messages for the player view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PlaybackUpdated:
		if v.session == nil || msg.SessionID != v.session.ID() {
			return v, nil
		}
		cmd := v.setState(msg.State)
		return v, tea.Batch(cmd, v.waitForState())

	case messages.SubscriptionClosed:
		if v.session != nil && msg.SessionID == v.session.ID() {
			v.updates = nil
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}

	var cmd tea.Cmd
	v.status, cmd = v.status.Update(msg)
	return v, cmd
}

// handleKeyMsg maps key presses to session commands.
//
//nolint:gocyclo // one case per binding
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		_ = v.Close()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewLibrary}
		}
	case keymap.Matches(k, v.keymap.Quit):
		_ = v.Close()
		return v, tea.Quit
	}

	if v.session == nil {
		return v, nil
	}
	v.err = nil

	switch {
	case keymap.Matches(k, v.keymap.PlayPause):
		v.err = v.session.TogglePlayPause()
	case keymap.Matches(k, v.keymap.SkipBack):
		v.session.Skip(-domain.SkipSeconds)
	case keymap.Matches(k, v.keymap.SkipForward):
		v.session.Skip(domain.SkipSeconds)
	case keymap.Matches(k, v.keymap.Slower):
		v.session.SetRate(StepRate(v.state.Rate, -1))
	case keymap.Matches(k, v.keymap.Faster):
		v.session.SetRate(StepRate(v.state.Rate, 1))
	case keymap.Matches(k, v.keymap.VolumeDown):
		v.session.SetVolume(v.state.Volume - volumeStep)
	case keymap.Matches(k, v.keymap.VolumeUp):
		v.session.SetVolume(v.state.Volume + volumeStep)
	case keymap.Matches(k, v.keymap.Focus):
		v.toggleFocus()
		return v, nil
	case keymap.Matches(k, v.keymap.Up):
		v.moveCursor(-1)
		return v, nil
	case keymap.Matches(k, v.keymap.Down):
		v.moveCursor(1)
		return v, nil
	case keymap.Matches(k, v.keymap.Select):
		v.err = v.selectFocused()
	case keymap.Matches(k, v.keymap.PlaySegment):
		v.err = v.playFocused()
	default:
		return v, nil
	}

	return v, v.refresh()
}

// handleMouse seeks when the waveform row is clicked.
func (v *View) handleMouse(msg tea.MouseMsg) (*View, tea.Cmd) {
	if v.session == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return v, nil
	}
	if msg.Y != WaveformRow || msg.X < 0 || msg.X >= v.waveform.Width() {
		return v, nil
	}

	v.session.SelectTimeline(v.waveform.PositionAt(msg.X))
	return v, v.refresh()
}

func (v *View) toggleFocus() {
	if v.focus == PanelTranscript && len(v.points) > 0 {
		v.focus = PanelInsights
		return
	}
	v.focus = PanelTranscript
}

func (v *View) moveCursor(delta int) {
	switch v.focus {
	case PanelTranscript:
		v.segCursor = clampIndex(v.segCursor+delta, len(v.session.Recording().Segments))
	case PanelInsights:
		v.insightCursor = clampIndex(v.insightCursor+delta, len(v.points))
	}
}

func (v *View) selectFocused() error {
	switch v.focus {
	case PanelInsights:
		if p, ok := v.focusedPoint(); ok {
			return v.session.SelectSummaryPoint(p.ID)
		}
	case PanelTranscript:
		if seg, ok := v.focusedSegment(); ok {
			return v.session.SelectSegment(seg.ID)
		}
	}
	return nil
}

func (v *View) playFocused() error {
	var err error
	switch v.focus {
	case PanelInsights:
		if p, ok := v.focusedPoint(); ok {
			_, err = v.session.AuditionSummaryPoint(p.ID)
		}
	case PanelTranscript:
		if seg, ok := v.focusedSegment(); ok {
			_, err = v.session.PlaySegment(seg.ID)
		}
	}
	return err
}

func (v *View) focusedSegment() (domain.Segment, bool) {
	segs := v.session.Recording().Segments
	if v.segCursor < 0 || v.segCursor >= len(segs) {
		return domain.Segment{}, false
	}
	return segs[v.segCursor], true
}

func (v *View) focusedPoint() (domain.SummaryPoint, bool) {
	if v.insightCursor < 0 || v.insightCursor >= len(v.points) {
		return domain.SummaryPoint{}, false
	}
	return v.points[v.insightCursor], true
}

// refresh reads the session state synchronously so the next frame reflects
// the command just issued.
func (v *View) refresh() tea.Cmd {
	if v.session == nil {
		return nil
	}
	return v.setState(v.session.State())
}

// setState stores a published state and moves the transcript cursor to a
// newly active segment.
func (v *View) setState(st domain.PlaybackState) tea.Cmd {
	v.state = st
	if st.ActiveSegmentID != "" && st.ActiveSegmentID != v.activeSegment {
		if i, ok := v.segIndex[st.ActiveSegmentID]; ok {
			v.segCursor = i
		}
	}
	v.activeSegment = st.ActiveSegmentID
	return v.status.SetPlayback(st)
}

// StepRate returns the next rate from the rate menu in direction dir.
func StepRate(current float64, dir int) float64 {
	const eps = 1e-9
	rates := domain.PlaybackRates

	if dir > 0 {
		for _, r := range rates {
			if r > current+eps {
				return r
			}
		}
		return rates[len(rates)-1]
	}
	for i := len(rates) - 1; i >= 0; i-- {
		if rates[i] < current-eps {
			return rates[i]
		}
	}
	return rates[0]
}

// View renders the player.
func (v *View) View() string {
	if v.session == nil {
		return v.styles.Muted.Render("No recording open.")
	}

	rec := v.session.Recording()
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(rec.Title))
	b.WriteString("\n\n")
	b.WriteString(v.waveform.View(v.state.Progress(), v.state.Duration, v.highlightSpans()))
	b.WriteString("\n\n")
	b.WriteString(v.renderSpeaking())
	b.WriteString("\n\n")
	b.WriteString(v.renderPanels())
	b.WriteString("\n")
	b.WriteString(v.status.View())

	return b.String()
}

// highlightSpans converts the highlight set to normalised timeline spans.
func (v *View) highlightSpans() []waveform.Span {
	if v.state.Duration <= 0 || len(v.state.HighlightedSegmentIDs) == 0 {
		return nil
	}
	segs := v.session.Recording().Segments
	spans := make([]waveform.Span, 0, len(v.state.HighlightedSegmentIDs))
	for _, id := range v.state.HighlightedSegmentIDs {
		i, ok := v.segIndex[id]
		if !ok {
			continue
		}
		spans = append(spans, waveform.Span{
			Start: segs[i].Start / v.state.Duration,
			End:   segs[i].End / v.state.Duration,
		})
	}
	return spans
}

// renderSpeaking renders the current word line or the last command error.
func (v *View) renderSpeaking() string {
	if v.err != nil {
		msg := v.err.Error()
		if errors.Is(v.err, domain.ErrPlaybackRejected) {
			msg = "Playback was blocked by the device. Press space to try again."
		}
		return v.styles.Error.Render(msg)
	}

	word, ok := v.activeWord()
	if !ok {
		return v.styles.Muted.Render("Currently speaking: -")
	}

	line := v.styles.Normal.Render("Currently speaking: ") +
		v.styles.ActiveWord.Render(fmt.Sprintf("“%s”", word))
	if IsMedicalTerm(word) {
		line += " " + v.styles.Badge.Render("Medical Term")
	}
	return line
}

func (v *View) activeWord() (string, bool) {
	words := v.session.Recording().Words
	i := v.state.ActiveWordIndex
	if i < 0 || i >= len(words) {
		return "", false
	}
	return words[i].Text, true
}

func (v *View) renderPanels() string {
	bodyHeight := v.height - headerLines - 3
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	transcriptWidth := v.width*3/5 - 2
	insightsWidth := v.width - transcriptWidth - 4
	if len(v.points) == 0 {
		transcriptWidth = v.width - 2
	}
	if transcriptWidth < 10 {
		transcriptWidth = 10
	}

	transcript := v.panelStyle(PanelTranscript).
		Width(transcriptWidth).
		Height(bodyHeight).
		Render(v.renderTranscript(transcriptWidth, bodyHeight))

	if len(v.points) == 0 {
		return transcript
	}
	if insightsWidth < 10 {
		insightsWidth = 10
	}

	insights := v.panelStyle(PanelInsights).
		Width(insightsWidth).
		Height(bodyHeight).
		Render(v.renderInsights(insightsWidth, bodyHeight))

	return lipgloss.JoinHorizontal(lipgloss.Top, transcript, insights)
}

func (v *View) panelStyle(p Panel) lipgloss.Style {
	if v.focus == p {
		return v.styles.FocusedBorder
	}
	return v.styles.Border
}

// renderTranscript renders one line per segment, scrolled to keep the
// cursor visible.
func (v *View) renderTranscript(width, height int) string {
	rec := v.session.Recording()
	if len(rec.Segments) == 0 {
		return v.styles.Muted.Render("No transcript.")
	}

	start, end := window(v.segCursor, len(rec.Segments), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, v.renderSegment(i, &rec.Segments[i], width))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderSegment(index int, seg *domain.Segment, width int) string {
	rec := v.session.Recording()

	indicator := "  "
	if v.focus == PanelTranscript && index == v.segCursor {
		indicator = "> "
	}

	name := seg.SpeakerID
	role := domain.RoleClinician
	if sp, ok := rec.Speaker(seg.SpeakerID); ok {
		name = sp.Name
		role = sp.Role
	}

	prefix := indicator + domain.FormatClock(seg.Start) + " "
	label := name + ": "
	text := truncate(seg.Text, width-len([]rune(prefix))-len([]rune(label)))

	var body lipgloss.Style
	switch {
	case seg.ID == v.state.ActiveSegmentID:
		body = v.styles.ActiveSegment
	case v.state.IsHighlighted(seg.ID):
		body = v.styles.Highlighted
	case seg.Silence:
		body = v.styles.Silence
	case seg.SmallTalk:
		body = v.styles.SmallTalk
	default:
		body = v.styles.Normal
	}

	rendered := body.Render(text)
	if seg.ID == v.state.ActiveSegmentID {
		if word, ok := v.activeWord(); ok {
			rendered = markWord(text, word, body, v.styles.ActiveWord)
		}
	}

	return v.styles.Muted.Render(prefix) + v.styles.Speaker(role).Render(label) + rendered
}

// renderInsights renders category headers and their points.
func (v *View) renderInsights(width, height int) string {
	lines := make([]string, 0, len(v.points)+len(v.groups))
	cursorLine := 0
	n := 0

	for _, g := range v.groups {
		lines = append(lines, v.styles.Category.Render(truncate(g.Category, width)))
		for _, p := range g.Points {
			if n == v.insightCursor {
				cursorLine = len(lines)
			}
			lines = append(lines, v.renderPoint(n, p, width))
			n++
		}
	}

	start, end := window(cursorLine, len(lines), height)
	return strings.Join(lines[start:end], "\n")
}

func (v *View) renderPoint(index int, p domain.SummaryPoint, width int) string {
	indicator := "  "
	if v.focus == PanelInsights && index == v.insightCursor {
		indicator = "> "
	}

	suffix := ""
	if p.HasEvidence() {
		suffix = fmt.Sprintf(" (%d)", len(p.RelatedSegmentIDs))
	}
	text := truncate(normalisers.Inline(p.Text), width-len([]rune(indicator))-len(suffix)-2)

	if p.ID == v.state.ActiveSummaryPointID {
		return indicator + v.styles.ActiveInsight.Render(text) + v.styles.Muted.Render(suffix)
	}
	return indicator + v.styles.Normal.Render("• "+text) + v.styles.Muted.Render(suffix)
}

// markWord renders text in base style with the first occurrence of word,
// stripped of punctuation, in the word style.
func markWord(text, word string, base, mark lipgloss.Style) string {
	bare := strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	i := -1
	if bare != "" {
		i = strings.Index(text, bare)
	}
	if i < 0 {
		return base.Render(text)
	}
	return base.Render(text[:i]) + mark.Render(bare) + base.Render(text[i+len(bare):])
}

// window returns the [start, end) slice of n items of the given height that
// keeps cursor visible.
func window(cursor, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	return start, end
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 {
		n = 4
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.waveform.SetWidth(width)
	v.status.SetWidth(width)
}

// Session returns the open session, or nil.
func (v *View) Session() driving.PlaybackSession {
	return v.session
}

// State returns the last rendered playback state.
func (v *View) State() domain.PlaybackState {
	return v.state
}

// Focus returns the focused panel.
func (v *View) Focus() Panel {
	return v.focus
}

// Cursor returns the cursor index within the focused panel.
func (v *View) Cursor() int {
	if v.focus == PanelInsights {
		return v.insightCursor
	}
	return v.segCursor
}

// Err returns the last command error.
func (v *View) Err() error {
	return v.err
}
