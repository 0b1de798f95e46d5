package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/adapters/driven/bundle"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/device/simulated"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/services"
)

const testBundle = `{
  "title": "Fever and Stomach Pain",
  "duration": 0.3,
  "speakers": [
    {"id": "SPEAKER_00", "name": "Dr. Smith", "role": "clinician"},
    {"id": "SPEAKER_01", "name": "Mr. McKay", "role": "patient"}
  ],
  "transcript": [
    {"utterance_id": "u1", "speaker": "SPEAKER_00", "text": "What brings you in?", "start": 0, "end": 0.1},
    {"utterance_id": "u2", "speaker": "SPEAKER_01", "text": "A fever since Tuesday.", "start": 0.1, "end": 0.3}
  ],
  "summary": {
    "symptoms": [{"info": "**Fever** for three days", "utterance_ids": ["u2"]}],
    "plan": [{"info": "Follow up in a week", "utterance_ids": []}]
  }
}`

// testLibrary is the library wired by setupTestServices.
var testLibrary *services.LibraryService

// setupTestServices wires in-memory services and returns a cleanup function.
func setupTestServices() func() {
	testLibrary = services.NewLibraryService(memory.NewRecordingStore(), bundle.NewLoader(), nil)
	SetServices(&Services{
		Library:  testLibrary,
		Sessions: services.NewPlayer(simulated.Factory(10*time.Millisecond), domain.DefaultAppSettings().Player),
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})
	return func() {
		SetServices(nil)
		testLibrary = nil
	}
}

// writeBundle writes the test bundle into a temp dir and returns its path.
func writeBundle(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fever.json")
	require.NoError(t, os.WriteFile(path, []byte(testBundle), 0644))
	return path
}

// importBundle imports the test bundle and returns the recording.
func importBundle(t *testing.T) *domain.Recording {
	t.Helper()
	rec, err := testLibrary.Import(t.Context(), writeBundle(t))
	require.NoError(t, err)
	return rec
}

// safeBuffer is a bytes.Buffer safe for a command writing from another
// goroutine.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
