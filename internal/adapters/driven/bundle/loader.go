package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.BundleLoader = (*Loader)(nil)

// File names read from a bundle directory.
const (
	MetaFile       = "bundle.json"
	TranscriptFile = "transcript.json"
	SummaryFile    = "summary.json"
	WordsFile      = "words.json"
)

// audioExtensions are picked up as the bundle's audio when a directory
// bundle does not name one.
var audioExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".flac"}

// Loader reads recording bundles from JSON files or bundle directories.
type Loader struct{}

// NewLoader creates a bundle loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Accepts reports whether path is a .json file or a directory holding a
// transcript.json.
func (l *Loader) Accepts(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return strings.EqualFold(filepath.Ext(path), ".json")
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(path, TranscriptFile))
		return err == nil
	}
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load parses the bundle at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}

	var raw rawBundle
	var baseDir string
	if info.IsDir() {
		baseDir = path
		raw, err = readDir(path)
	} else {
		baseDir = filepath.Dir(path)
		raw, err = readFile(path)
	}
	if err != nil {
		return nil, err
	}

	rec, err := raw.normalise()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFormat, path, err)
	}

	if rec.Title == "" {
		rec.Title = titleFromPath(path)
	}
	if rec.AudioPath == "" && info.IsDir() {
		rec.AudioPath = findAudio(path)
	}
	if rec.AudioPath != "" && !filepath.IsAbs(rec.AudioPath) {
		rec.AudioPath = filepath.Join(baseDir, rec.AudioPath)
	}

	return rec, nil
}

// rawBundle is the on-disk shape. Transcript, summary and words accept both
// the normalised field names and the fixture field names.
type rawBundle struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Audio      string           `json:"audio"`
	AudioPath  string           `json:"audioPath"`
	Duration   float64          `json:"duration"`
	Speakers   []domain.Speaker `json:"speakers"`
	Transcript []rawSegment     `json:"transcript"`
	Segments   []rawSegment     `json:"segments"`
	Summary    json.RawMessage  `json:"summary"`
	Words      []rawWord        `json:"words"`
	WordTiming []rawWord        `json:"wordTimings"`
}

type rawSegment struct {
	// Normalised shape.
	ID        string   `json:"id"`
	SpeakerID string   `json:"speakerId"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
	SmallTalk bool     `json:"isSmallTalk"`
	Silence   bool     `json:"isSilence"`

	// Fixture shape.
	UtteranceID json.RawMessage `json:"utterance_id"`
	Speaker     string          `json:"speaker"`
	Start       *float64        `json:"start"`
	End         *float64        `json:"end"`

	Text string `json:"text"`
}

type rawWord struct {
	Word  string  `json:"word"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type rawPoint struct {
	// Normalised shape.
	ID                string   `json:"id"`
	Category          string   `json:"category"`
	Text              string   `json:"text"`
	RelatedSegmentIDs []string `json:"relatedSegmentIds"`

	// Fixture shape.
	Info         string            `json:"info"`
	UtteranceIDs []json.RawMessage `json:"utterance_ids"`
}

func readFile(path string) (rawBundle, error) {
	var raw rawBundle
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("read bundle: %w", err)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFormat, path, err)
	}
	return raw, nil
}

// readDir assembles a bundle from separate files. Only transcript.json is
// required.
func readDir(dir string) (rawBundle, error) {
	var raw rawBundle

	if data, err := os.ReadFile(filepath.Join(dir, MetaFile)); err == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return raw, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFormat, MetaFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return raw, fmt.Errorf("read bundle metadata: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, TranscriptFile))
	if err != nil {
		return raw, fmt.Errorf("read transcript: %w", err)
	}
	if err := json.Unmarshal(data, &raw.Transcript); err != nil {
		return raw, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFormat, TranscriptFile, err)
	}

	if data, err := os.ReadFile(filepath.Join(dir, SummaryFile)); err == nil {
		raw.Summary = data
	} else if !errors.Is(err, os.ErrNotExist) {
		return raw, fmt.Errorf("read summary: %w", err)
	}

	if data, err := os.ReadFile(filepath.Join(dir, WordsFile)); err == nil {
		if err := json.Unmarshal(data, &raw.Words); err != nil {
			return raw, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFormat, WordsFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return raw, fmt.Errorf("read words: %w", err)
	}

	return raw, nil
}

// normalise converts the raw bundle into a Recording.
func (raw rawBundle) normalise() (*domain.Recording, error) {
	items := raw.Transcript
	if len(items) == 0 {
		items = raw.Segments
	}
	if len(items) == 0 {
		return nil, errors.New("bundle has no transcript")
	}

	rec := &domain.Recording{
		ID:       raw.ID,
		Title:    raw.Title,
		Duration: raw.Duration,
	}
	rec.AudioPath = raw.Audio
	if rec.AudioPath == "" {
		rec.AudioPath = raw.AudioPath
	}

	// utterances maps fixture utterance ids to segment ids.
	utterances := make(map[string]string, len(items))
	known := make(map[string]bool, len(items))
	rec.Segments = make([]domain.Segment, 0, len(items))

	for i, item := range items {
		seg := domain.Segment{
			ID:        item.ID,
			SpeakerID: item.SpeakerID,
			Text:      strings.TrimSpace(item.Text),
			SmallTalk: item.SmallTalk,
			Silence:   item.Silence,
		}
		if seg.ID == "" {
			seg.ID = "segment-" + strconv.Itoa(i+1)
		}
		if seg.SpeakerID == "" {
			seg.SpeakerID = item.Speaker
		}
		seg.Start = firstSet(item.StartTime, item.Start)
		seg.End = firstSet(item.EndTime, item.End)

		if u := idString(item.UtteranceID); u != "" {
			if _, dup := utterances[u]; !dup {
				utterances[u] = seg.ID
			}
		}
		known[seg.ID] = true
		rec.Segments = append(rec.Segments, seg)
	}

	words := raw.Words
	if len(words) == 0 {
		words = raw.WordTiming
	}
	rec.Words = make([]domain.Word, 0, len(words))
	for _, w := range words {
		text := w.Word
		if text == "" {
			text = w.Text
		}
		rec.Words = append(rec.Words, domain.Word{Text: strings.TrimSpace(text), Start: w.Start, End: w.End})
	}

	summary, err := decodeSummary(raw.Summary, utterances, known)
	if err != nil {
		return nil, err
	}
	rec.Summary = summary

	rec.Speakers = raw.Speakers
	if len(rec.Speakers) == 0 {
		rec.Speakers = inferSpeakers(rec.Segments)
	}

	return rec, nil
}

// decodeSummary accepts either an array of points or an object mapping a
// category key to its items. Object key order is kept.
func decodeSummary(data json.RawMessage, utterances map[string]string, known map[string]bool) ([]domain.SummaryPoint, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []rawPoint
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		points := make([]domain.SummaryPoint, 0, len(items))
		for i, item := range items {
			p := item.point(item.Category, utterances, known)
			if p.ID == "" {
				p.ID = "point-" + strconv.Itoa(i+1)
			}
			points = append(points, p)
		}
		return points, nil

	case '{':
		return decodeCategories(data, utterances, known)

	default:
		return nil, errors.New("summary must be an array or an object")
	}
}

func decodeCategories(data json.RawMessage, utterances map[string]string, known map[string]bool) ([]domain.SummaryPoint, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	var points []domain.SummaryPoint
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("summary: unexpected key %v", tok)
		}

		var items []rawPoint
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("summary category %q: %w", key, err)
		}

		category := CategoryTitle(key)
		for i, item := range items {
			p := item.point(category, utterances, known)
			if p.ID == "" {
				p.ID = key + "-" + strconv.Itoa(i)
			}
			points = append(points, p)
		}
	}

	return points, nil
}

// point builds a summary point. Fixture utterance ids are mapped to segment
// ids; ids that do not resolve are dropped.
func (item rawPoint) point(category string, utterances map[string]string, known map[string]bool) domain.SummaryPoint {
	p := domain.SummaryPoint{
		ID:       item.ID,
		Category: category,
		Text:     item.Text,
	}
	if p.Text == "" {
		p.Text = item.Info
	}

	if len(item.RelatedSegmentIDs) > 0 {
		p.RelatedSegmentIDs = append([]string(nil), item.RelatedSegmentIDs...)
		return p
	}

	for _, raw := range item.UtteranceIDs {
		u := idString(raw)
		if id, ok := utterances[u]; ok {
			p.RelatedSegmentIDs = append(p.RelatedSegmentIDs, id)
		} else if known[u] {
			p.RelatedSegmentIDs = append(p.RelatedSegmentIDs, u)
		}
	}
	return p
}

// CategoryTitle turns a category key such as "chief_complaint" into
// "Chief Complaint".
func CategoryTitle(key string) string {
	var b strings.Builder
	b.Grow(len(key))

	boundary := true
	for _, r := range strings.ReplaceAll(key, "_", " ") {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && boundary {
			r = unicode.ToUpper(r)
		}
		boundary = !word
		b.WriteRune(r)
	}
	return b.String()
}

// inferSpeakers lists speakers in first-appearance order. The first speaker
// is assumed to be the clinician.
func inferSpeakers(segments []domain.Segment) []domain.Speaker {
	var speakers []domain.Speaker
	seen := make(map[string]bool)
	for _, s := range segments {
		if s.SpeakerID == "" || seen[s.SpeakerID] {
			continue
		}
		seen[s.SpeakerID] = true
		role := domain.RolePatient
		if len(speakers) == 0 {
			role = domain.RoleClinician
		}
		speakers = append(speakers, domain.Speaker{ID: s.SpeakerID, Name: s.SpeakerID, Role: role})
	}
	return speakers
}

// idString renders a JSON string or number id as plain text.
func idString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func firstSet(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func titleFromPath(path string) string {
	base := filepath.Base(filepath.Clean(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return CategoryTitle(strings.ReplaceAll(base, "-", "_"))
}

func findAudio(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, a := range audioExtensions {
			if ext == a {
				return e.Name()
			}
		}
	}
	return ""
}
