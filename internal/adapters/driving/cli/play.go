package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
)

var (
	playHeadless bool
	playFrom     float64
	playRate     float64
)

var playCmd = &cobra.Command{
	Use:   "play [id|bundle]",
	Short: "Play a consultation",
	Long: `Play a consultation with its transcript and insights in sync.

The argument is a library id or the path of a bundle on disk; a bundle
path is played without importing it.

In a terminal the interactive player opens. When output is not a terminal,
or with --headless, the transcript is printed as each segment is reached.

Controls:
  space      - Play / pause
  ←/→        - Skip 10 seconds
  tab        - Switch between transcript and insights
  enter      - Jump to segment / insight evidence
  r          - Play only the selected segment or insight
  Click      - Seek on the waveform
  Esc        - Back to library`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "print the transcript instead of opening the player")
	playCmd.Flags().Float64Var(&playFrom, "from", 0, "start position in seconds")
	playCmd.Flags().Float64Var(&playRate, "rate", 0, "playback rate (0 = configured rate)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}
	sessions, err := requireSessions()
	if err != nil {
		return err
	}

	rec, err := library.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	if playHeadless || !isTerminal(cmd.OutOrStdout()) {
		return followPlayback(cmd, sessions, rec)
	}
	return runPlayer(cmd, tui.NewPorts(library, sessions), rec)
}

// runPlayer opens rec in the interactive player, or the menu when rec is nil.
func runPlayer(cmd *cobra.Command, ports *tui.Ports, rec *domain.Recording) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if rec != nil {
		app.WithRecording(rec)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// followPlayback plays rec without a UI, printing each segment as it
// becomes active. It returns when playback ends or is interrupted.
func followPlayback(cmd *cobra.Command, sessions driving.SessionFactory, rec *domain.Recording) error {
	session, err := sessions.Open(rec)
	if err != nil {
		return fmt.Errorf("failed to open playback: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("closing session: %v", err)
		}
	}()

	if playRate > 0 {
		session.SetRate(playRate)
	}
	if playFrom > 0 {
		session.Seek(playFrom)
	}

	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Playing %q (%s)\n\n", rec.Title, domain.FormatClock(rec.EffectiveDuration()))
	if err := session.Play(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	return follow(ctx, cmd.OutOrStdout(), rec, updates)
}

func follow(ctx context.Context, out io.Writer, rec *domain.Recording, updates <-chan domain.PlaybackState) error {
	var active string
	var started bool

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStopped.")
			return nil

		case st, ok := <-updates:
			if !ok {
				return nil
			}
			if st.LastError != nil {
				return fmt.Errorf("playback failed: %w", st.LastError)
			}

			if st.ActiveSegmentID != "" && st.ActiveSegmentID != active {
				active = st.ActiveSegmentID
				printSegment(out, rec, active)
			}

			if st.IsPlaying || st.IsBuffering {
				started = true
				continue
			}
			if started || (st.Duration > 0 && st.CurrentTime >= st.Duration) {
				fmt.Fprintf(out, "\nFinished at %s.\n", domain.FormatClock(st.CurrentTime))
				return nil
			}
		}
	}
}

func printSegment(out io.Writer, rec *domain.Recording, id string) {
	for _, seg := range rec.Segments {
		if seg.ID == id {
			fmt.Fprintf(out, "[%s] %s: %s\n", domain.FormatClock(seg.Start), speakerName(rec, seg.SpeakerID), seg.Text)
			return
		}
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
