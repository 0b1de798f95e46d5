package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/consultsync/internal/adapters/driven/bundle"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
	"github.com/custodia-labs/consultsync/internal/normalisers"
)

var (
	libraryJSON  bool
	watchSettle  time.Duration
	watchInitial bool
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage imported consultations",
	Long: `Manage the consultation library.

A consultation bundle is either a single JSON file holding the transcript,
summary and word timings, or a directory containing transcript.json,
summary.json, words.json and the audio file.`,
}

var libraryImportCmd = &cobra.Command{
	Use:   "import [path...]",
	Short: "Import consultation bundles",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLibraryImport,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported consultations",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a consultation's transcript and insights",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a consultation from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRemove,
}

var libraryWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import bundles as they appear in a directory",
	Long: `Watch a directory and import every consultation bundle written into it.

A bundle is imported once it has stopped changing for the settle period.
Press Ctrl+C to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryWatch,
}

func init() {
	libraryListCmd.Flags().BoolVar(&libraryJSON, "json", false, "output as JSON")
	libraryShowCmd.Flags().BoolVar(&libraryJSON, "json", false, "output as JSON")
	libraryWatchCmd.Flags().DurationVar(&watchSettle, "settle", bundle.DefaultSettle,
		"how long a bundle must stay unchanged before import")
	libraryWatchCmd.Flags().BoolVar(&watchInitial, "initial", false,
		"import bundles already in the directory before watching")

	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryWatchCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}

	var failed int
	for _, path := range args {
		rec, err := library.Import(cmd.Context(), path)
		if err != nil {
			cmd.PrintErrf("Failed to import %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("Imported %q as %s (%d segments, %d insights)\n",
			rec.Title, rec.ID, len(rec.Segments), len(rec.Summary))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d bundles failed to import", failed, len(args))
	}
	return nil
}

func runLibraryList(cmd *cobra.Command, _ []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}

	recordings, err := library.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list recordings: %w", err)
	}

	if libraryJSON {
		return printJSON(cmd, recordings)
	}

	if len(recordings) == 0 {
		cmd.Println("No recordings. Import one with 'consultsync library import <bundle>'.")
		return nil
	}

	cmd.Println("Recordings:")
	cmd.Println()
	for _, r := range recordings {
		title := r.Title
		if title == "" {
			title = "(Untitled)"
		}
		cmd.Printf("  %s  %s  [%s]\n", r.ID, title, domain.FormatClock(r.Duration))
		cmd.Printf("      %d segments, %d insights, imported %s\n",
			r.SegmentCount, r.InsightCount, r.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}

	rec, err := library.Resolve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	if libraryJSON {
		return printJSON(cmd, rec)
	}

	cmd.Println(rec.Title)
	cmd.Printf("ID: %s  Duration: %s\n", rec.ID, domain.FormatClock(rec.EffectiveDuration()))
	if rec.AudioPath != "" {
		cmd.Printf("Audio: %s\n", rec.AudioPath)
	}
	cmd.Println()

	cmd.Println("[Transcript]")
	for _, seg := range rec.Segments {
		cmd.Printf("  %s  %-14s %s\n", domain.FormatClock(seg.Start), speakerName(rec, seg.SpeakerID)+":", seg.Text)
	}
	cmd.Println()

	cmd.Println("[Insights]")
	groups := domain.GroupByCategory(rec.Summary)
	if len(groups) == 0 {
		cmd.Println("  (none)")
	}
	for _, g := range groups {
		cmd.Printf("  %s\n", g.Category)
		for _, p := range g.Points {
			cmd.Printf("    - %s", normalisers.Inline(p.Text))
			if len(p.RelatedSegmentIDs) > 0 {
				cmd.Printf(" (%d sources)", len(p.RelatedSegmentIDs))
			}
			cmd.Println()
		}
	}
	return nil
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}

	if err := library.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove recording: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runLibraryWatch(cmd *cobra.Command, args []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}
	dir := args[0]

	if watchInitial {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if !bundle.NewLoader().Accepts(path) {
				continue
			}
			importWatched(cmd, library, path)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for consultation bundles. Press Ctrl+C to stop.\n", dir)
	watcher := bundle.NewWatcher(dir, watchSettle)
	err = watcher.Watch(ctx, func(path string) {
		logger.Debug("watch: bundle ready at %s", path)
		importWatched(cmd, library, path)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

func importWatched(cmd *cobra.Command, library driving.LibraryService, path string) {
	rec, err := library.Import(cmd.Context(), path)
	if err != nil {
		cmd.PrintErrf("Failed to import %s: %v\n", path, err)
		return
	}
	cmd.Printf("Imported %q as %s\n", rec.Title, rec.ID)
}

func speakerName(rec *domain.Recording, id string) string {
	if sp, ok := rec.Speaker(id); ok && sp.Name != "" {
		return sp.Name
	}
	if id == "" {
		return "Unknown"
	}
	return id
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
