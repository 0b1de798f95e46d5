package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

const fixtureTranscript = `[
  {"utterance_id": "u1", "speaker": "SPEAKER_00", "text": "Hello, Mr. McKay.", "start": 4.76, "end": 6.42},
  {"utterance_id": "u2", "speaker": "SPEAKER_00", "text": "What brings you here today?", "start": 7.28, "end": 9.0},
  {"utterance_id": "u3", "speaker": "SPEAKER_01", "text": "I have a fever and a sore stomach.", "start": 9.74, "end": 14.16}
]`

const fixtureSummary = `{
  "symptoms": [
    {"info": "Fever and sore stomach", "utterance_ids": ["u3", "u9"]}
  ],
  "chief_complaint": [
    {"info": "Presents with fever", "utterance_ids": ["u2", "u3"]},
    {"info": "Unsourced remark", "utterance_ids": []}
  ]
}`

const fixtureWords = `[
  {"word": "Hello,", "start": 4.76, "end": 5.1},
  {"word": "Mr.", "start": 5.2, "end": 5.5}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_FixtureFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fever-stomach.json", `{
  "title": "Fever and Stomach Pain Consultation",
  "audio": "fever_stomach.wav",
  "duration": 62.36,
  "speakers": [
    {"id": "SPEAKER_00", "name": "Dr. Smith", "role": "clinician"},
    {"id": "SPEAKER_01", "name": "Mr. McKay", "role": "patient"}
  ],
  "transcript": `+fixtureTranscript+`,
  "summary": `+fixtureSummary+`,
  "words": `+fixtureWords+`
}`)

	rec, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Fever and Stomach Pain Consultation", rec.Title)
	assert.Equal(t, filepath.Join(dir, "fever_stomach.wav"), rec.AudioPath)
	assert.InDelta(t, 62.36, rec.Duration, 1e-9)
	require.Len(t, rec.Speakers, 2)
	assert.Equal(t, domain.RoleClinician, rec.Speakers[0].Role)

	require.Len(t, rec.Segments, 3)
	assert.Equal(t, "segment-1", rec.Segments[0].ID)
	assert.Equal(t, "segment-3", rec.Segments[2].ID)
	assert.Equal(t, "SPEAKER_01", rec.Segments[2].SpeakerID)
	assert.InDelta(t, 9.74, rec.Segments[2].Start, 1e-9)
	assert.InDelta(t, 14.16, rec.Segments[2].End, 1e-9)

	require.Len(t, rec.Words, 2)
	assert.Equal(t, "Hello,", rec.Words[0].Text)

	require.Len(t, rec.Summary, 3)

	// Category key order is kept.
	assert.Equal(t, "symptoms-0", rec.Summary[0].ID)
	assert.Equal(t, "Symptoms", rec.Summary[0].Category)
	assert.Equal(t, "Fever and sore stomach", rec.Summary[0].Text)
	assert.Equal(t, []string{"segment-3"}, rec.Summary[0].RelatedSegmentIDs, "unresolved utterance ids are filtered")

	assert.Equal(t, "chief_complaint-0", rec.Summary[1].ID)
	assert.Equal(t, "Chief Complaint", rec.Summary[1].Category)
	assert.Equal(t, []string{"segment-2", "segment-3"}, rec.Summary[1].RelatedSegmentIDs)

	assert.Equal(t, "chief_complaint-1", rec.Summary[2].ID)
	assert.Empty(t, rec.Summary[2].RelatedSegmentIDs)
}

func TestLoader_NormalisedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "consult.json", `{
  "id": "consultation-fever-stomach",
  "title": "Fever",
  "audio": "/abs/fever.mp3",
  "transcript": [
    {"id": "segment-1", "speakerId": "SPEAKER_00", "text": "Hello", "startTime": 0, "endTime": 2, "isSmallTalk": true},
    {"id": "segment-2", "speakerId": "SPEAKER_01", "text": "", "startTime": 2, "endTime": 4, "isSilence": true}
  ],
  "summary": [
    {"id": "summary-1", "category": "Plan", "text": "Rest", "relatedSegmentIds": ["segment-1", "segment-99"]}
  ]
}`)

	rec, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "consultation-fever-stomach", rec.ID)
	assert.Equal(t, "/abs/fever.mp3", rec.AudioPath)
	require.Len(t, rec.Segments, 2)
	assert.True(t, rec.Segments[0].SmallTalk)
	assert.True(t, rec.Segments[1].Silence)

	require.Len(t, rec.Summary, 1)
	// Dangling ids in the normalised shape are kept; the resolver drops them.
	assert.Equal(t, []string{"segment-1", "segment-99"}, rec.Summary[0].RelatedSegmentIDs)

	// Speakers are inferred when the bundle does not list them.
	require.Len(t, rec.Speakers, 2)
	assert.Equal(t, domain.RoleClinician, rec.Speakers[0].Role)
	assert.Equal(t, domain.RolePatient, rec.Speakers[1].Role)
}

func TestLoader_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fever-stomach")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFile(t, dir, TranscriptFile, fixtureTranscript)
	writeFile(t, dir, SummaryFile, fixtureSummary)
	writeFile(t, dir, WordsFile, fixtureWords)
	writeFile(t, dir, "fever_stomach.wav", "RIFF")

	loader := NewLoader()
	assert.True(t, loader.Accepts(dir))

	rec, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "Fever Stomach", rec.Title)
	assert.Equal(t, filepath.Join(dir, "fever_stomach.wav"), rec.AudioPath)
	assert.Len(t, rec.Segments, 3)
	assert.Len(t, rec.Words, 2)
	assert.Len(t, rec.Summary, 3)
}

func TestLoader_NumericUtteranceIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "numeric.json", `{
  "transcript": [
    {"utterance_id": 10, "speaker": "A", "text": "one", "start": 0, "end": 1},
    {"utterance_id": 11, "speaker": "B", "text": "two", "start": 1, "end": 2}
  ],
  "summary": {"plan": [{"info": "x", "utterance_ids": [11, 10, 12]}]}
}`)

	rec, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rec.Summary, 1)
	assert.Equal(t, []string{"segment-2", "segment-1"}, rec.Summary[0].RelatedSegmentIDs)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", "{not json")
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("no transcript", func(t *testing.T) {
		path := writeFile(t, dir, "empty.json", `{"title": "x"}`)
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("summary of wrong type", func(t *testing.T) {
		path := writeFile(t, dir, "badsummary.json", `{"transcript": [{"text": "a", "start": 0, "end": 1}], "summary": "x"}`)
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(cctx, filepath.Join(dir, "broken.json"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_Accepts(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	assert.True(t, loader.Accepts("bundle.json"))
	assert.True(t, loader.Accepts("BUNDLE.JSON"))
	assert.False(t, loader.Accepts(""))
	assert.False(t, loader.Accepts("rec-123"))
	assert.False(t, loader.Accepts(dir), "directory without transcript")
}

func TestCategoryTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chief_complaint", "Chief Complaint"},
		{"symptoms", "Symptoms"},
		{"plan_of_care", "Plan Of Care"},
		{"Already Titled", "Already Titled"},
		{"follow-up", "Follow-Up"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryTitle(tt.in))
		})
	}
}
