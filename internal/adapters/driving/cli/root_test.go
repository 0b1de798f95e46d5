package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/consultsync/internal/core/services"
	"github.com/custodia-labs/consultsync/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "consultsync", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "library import")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("ephemeral"))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"play", "library", "tui", "mcp", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestBootstrap_WiresServicesAndCloses(t *testing.T) {
	defer SetBootstrap(nil)
	defer SetServices(nil)

	var gotEphemeral bool
	var closed bool
	SetBootstrap(func(_ context.Context, eph bool) (*Services, error) {
		gotEphemeral = eph
		return &Services{
			Settings: services.NewSettingsService(memory.NewConfigStore()),
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})
	defer func() { ephemeral = false }()

	out, err := runRoot(t, "--ephemeral", "config", "get", "player.rate")

	require.NoError(t, err)
	assert.Contains(t, out, "1")
	assert.True(t, gotEphemeral)
	assert.True(t, closed)
}

func TestBootstrap_Failure(t *testing.T) {
	defer SetBootstrap(nil)
	SetBootstrap(func(context.Context, bool) (*Services, error) {
		return nil, errors.New("database locked")
	})

	_, err := runRoot(t, "library", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting consultsync: database locked")
}

func TestVerboseFlag_EnablesLogger(t *testing.T) {
	defer logger.SetVerbose(false)
	defer func() { verbose = false }()

	_, err := runRoot(t, "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestLogLevelFlag(t *testing.T) {
	defer logger.SetLevel(logger.LevelOff)
	defer func() { logLevel = "" }()

	_, err := runRoot(t, "--log-level", "warn", "version")

	require.NoError(t, err)
	assert.Equal(t, logger.LevelWarn, logger.CurrentLevel())
}

func TestLogLevelFlag_Invalid(t *testing.T) {
	defer func() { logLevel = "" }()

	_, err := runRoot(t, "--log-level", "loud", "version")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log level "loud"`)
}
