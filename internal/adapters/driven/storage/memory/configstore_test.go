package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("storage.backend", "sqlite"))
	require.NoError(t, store.Set("storage.backend", "memory"))

	val, ok := store.Get("storage.backend")
	assert.True(t, ok)
	assert.Equal(t, "memory", val)

	_, ok = store.Get("storage.data_dir")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("player.rate", 1.5)
	_ = store.Set("player.tick_ms", 40)
	_ = store.Set("player.waveform_bars", int64(200))
	_ = store.Set("player.volume", float32(0.5))
	_ = store.Set("storage.data_dir", "/tmp/consultsync")

	assert.Equal(t, 1.5, store.GetFloat("player.rate"))
	assert.Equal(t, 0.5, store.GetFloat("player.volume"))
	assert.Equal(t, 40.0, store.GetFloat("player.tick_ms"))
	assert.Equal(t, 1, store.GetInt("player.rate"))
	assert.Equal(t, 200, store.GetInt("player.waveform_bars"))
	assert.Equal(t, "/tmp/consultsync", store.GetString("storage.data_dir"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("player.rate", "fast")
	_ = store.Set("storage.backend", 3)

	assert.Equal(t, 0.0, store.GetFloat("player.rate"))
	assert.Equal(t, 0, store.GetInt("player.rate"))
	assert.Equal(t, "", store.GetString("storage.backend"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	assert.Empty(t, store.Keys())

	_ = store.Set("storage.backend", "memory")
	_ = store.Set("player.rate", 2.0)

	assert.Equal(t, []string{"player.rate", "storage.backend"}, store.Keys())
}

func TestConfigStore_NoPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("player.tick_ms", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("player.tick_ms")
		}()
	}
	wg.Wait()

	_, ok := store.Get("player.tick_ms")
	assert.True(t, ok)
}
