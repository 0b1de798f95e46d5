package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{[["), 0o600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_WritesTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("player.rate", 1.25))
	require.NoError(t, store.Set("player.tick_ms", 40))
	require.NoError(t, store.Set("storage.backend", "sqlite"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "[player]")
	assert.Contains(t, content, "[storage]")
	assert.False(t, strings.Contains(content, "player.rate"), "keys are nested, not quoted")
}

func TestConfigStore_PersistenceAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("player.rate", 1.5))
	require.NoError(t, store.Set("player.volume", 1))
	require.NoError(t, store.Set("player.waveform_bars", 90))
	require.NoError(t, store.Set("storage.data_dir", "/srv/consultsync"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 1.5, reloaded.GetFloat("player.rate"))
	assert.Equal(t, 1.0, reloaded.GetFloat("player.volume"), "integers read as floats")
	assert.Equal(t, 90, reloaded.GetInt("player.waveform_bars"))
	assert.Equal(t, "/srv/consultsync", reloaded.GetString("storage.data_dir"))
}

func TestConfigStore_HandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[player]\nrate = 2\nvolume = 0.25\n\n[storage]\nbackend = \"memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 2.0, store.GetFloat("player.rate"))
	assert.Equal(t, 0.25, store.GetFloat("player.volume"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, []string{"player.rate", "player.volume", "storage.backend"}, store.Keys())
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("player.rate", "fast"))

	assert.Equal(t, 0.0, store.GetFloat("player.rate"))
	assert.Equal(t, 0, store.GetInt("player.rate"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_Set_UnmarshallableValueIsRolledBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("player.channel", make(chan int))

	assert.Error(t, err)
	_, ok := store.Get("player.channel")
	assert.False(t, ok)
}

func TestConfigStore_Set_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("player.rate", 1.0))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o700))

	assert.Error(t, store.Set("player.volume", 0.5))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("player.tick_ms", i+1)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("player.tick_ms")
		}()
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("player.tick_ms"))
}

func TestNestMap_Collision(t *testing.T) {
	nested := nestMap(map[string]any{
		"player":      "flat",
		"player.rate": 1.0,
		"a.b.c":       1,
	})

	assert.Equal(t, "flat", nested["player"])
	assert.Equal(t, 1.0, nested["player.rate"])
	assert.Equal(t, map[string]any{"b": map[string]any{"c": 1}}, nested["a"])
}
