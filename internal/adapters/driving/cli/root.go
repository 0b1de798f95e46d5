// Package cli provides the consultsync command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	verbose   bool
	logLevel  string
	ephemeral bool
)

// Services are the driving ports the commands run against.
type Services struct {
	Library  driving.LibraryService
	Sessions driving.SessionFactory
	Settings driving.SettingsService

	// Close releases whatever the services hold open. May be nil.
	Close func() error
}

// Bootstrap builds the services once flags are parsed. ephemeral selects
// in-memory configuration and library stores.
type Bootstrap func(ctx context.Context, ephemeral bool) (*Services, error)

var (
	libraryService  driving.LibraryService
	sessionFactory  driving.SessionFactory
	settingsService driving.SettingsService

	bootstrap    Bootstrap
	closeService func() error
)

var rootCmd = &cobra.Command{
	Use:   "consultsync",
	Short: "Play back clinical consultations with a synchronised transcript",
	Long: `consultsync plays a recorded clinical consultation alongside its
transcript and clinical insights. The transcript follows the audio word by
word, clicking a segment or insight seeks to the evidence, and the waveform
can be clicked to jump anywhere in the conversation.

Import a consultation bundle, then open it in the player:
  consultsync library import ./visit.json
  consultsync play <id>`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"minimum log level: debug, info, warn or off (overrides --verbose)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false,
		"keep configuration and library in memory for this run")
}

// SetServices wires the driving ports used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	libraryService = s.Library
	sessionFactory = s.Sessions
	settingsService = s.Settings
	closeService = s.Close
}

// SetBootstrap registers the function that builds services before a command
// runs. Services already set with SetServices are kept when it is nil.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logLevel != "" {
		l, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(l)
	}

	if bootstrap == nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Section("Startup")
	s, err := bootstrap(ctx, ephemeral)
	if err != nil {
		return fmt.Errorf("starting consultsync: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown() error {
	if closeService == nil {
		return nil
	}
	err := closeService()
	closeService = nil
	return err
}

// requireLibrary returns the library service or a configuration error.
func requireLibrary() (driving.LibraryService, error) {
	if libraryService == nil {
		return nil, errors.New("library service not configured")
	}
	return libraryService, nil
}

func requireSessions() (driving.SessionFactory, error) {
	if sessionFactory == nil {
		return nil, errors.New("playback not configured")
	}
	return sessionFactory, nil
}
