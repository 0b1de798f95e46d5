package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := runRoot(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "consultsync version test-version-1.0.0")
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionCmd_Short(t *testing.T) {
	originalVersion := version
	SetVersion("1.2.3")
	defer func() {
		version = originalVersion
		versionShort = false
	}()

	out, err := runRoot(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	SetVersion("")

	out, err := runRoot(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "consultsync version dev")
}
