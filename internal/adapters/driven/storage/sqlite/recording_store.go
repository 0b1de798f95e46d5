package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
)

// recordingStore implements driven.RecordingStore.
type recordingStore struct {
	store *Store
}

var _ driven.RecordingStore = (*recordingStore)(nil)

// Save stores or replaces a recording with all of its children.
func (s *recordingStore) Save(ctx context.Context, rec *domain.Recording) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Children cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM recordings WHERE id = ?", rec.ID); err != nil {
		return fmt.Errorf("replacing recording: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recordings (id, title, audio_path, duration, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.AudioPath, rec.Duration, rec.ImportedAt.UnixNano()); err != nil {
		return fmt.Errorf("saving recording: %w", err)
	}

	if err := insertSpeakers(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertSegments(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertWords(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertSummary(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a recording by ID.
func (s *recordingStore) Get(ctx context.Context, id string) (*domain.Recording, error) {
	db := s.store.db
	rec := &domain.Recording{}
	var importedAt int64

	err := db.QueryRowContext(ctx, `
		SELECT id, title, audio_path, duration, imported_at
		FROM recordings WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Title, &rec.AudioPath, &rec.Duration, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying recording: %w", err)
	}
	if importedAt != 0 {
		rec.ImportedAt = time.Unix(0, importedAt).UTC()
	}

	if rec.Speakers, err = loadSpeakers(ctx, db, id); err != nil {
		return nil, err
	}
	if rec.Segments, err = loadSegments(ctx, db, id); err != nil {
		return nil, err
	}
	if rec.Words, err = loadWords(ctx, db, id); err != nil {
		return nil, err
	}
	if rec.Summary, err = loadSummary(ctx, db, id); err != nil {
		return nil, err
	}

	return rec, nil
}

// List returns summaries of all recordings, newest first.
func (s *recordingStore) List(ctx context.Context) ([]domain.RecordingSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT r.id, r.title,
			CASE WHEN r.duration > 0 THEN r.duration
				ELSE COALESCE((SELECT MAX(end_time) FROM segments WHERE recording_id = r.id), 0)
			END,
			r.imported_at,
			(SELECT COUNT(*) FROM segments WHERE recording_id = r.id),
			(SELECT COUNT(*) FROM summary_points WHERE recording_id = r.id)
		FROM recordings r
		ORDER BY r.imported_at DESC, r.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying recordings: %w", err)
	}
	defer rows.Close()

	var result []domain.RecordingSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sum domain.RecordingSummary
		var importedAt int64
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Duration, &importedAt,
			&sum.SegmentCount, &sum.InsightCount); err != nil {
			return nil, fmt.Errorf("scanning recording: %w", err)
		}
		if importedAt != 0 {
			sum.ImportedAt = time.Unix(0, importedAt).UTC()
		}
		result = append(result, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recordings: %w", err)
	}
	return result, nil
}

// Delete removes a recording and its children.
func (s *recordingStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recording: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting recording: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertSpeakers(ctx context.Context, tx *sql.Tx, rec *domain.Recording) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO speakers (recording_id, position, id, name, role) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, sp := range rec.Speakers {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, sp.ID, sp.Name, string(sp.Role)); err != nil {
			return fmt.Errorf("saving speaker %s: %w", sp.ID, err)
		}
	}
	return nil
}

func insertSegments(ctx context.Context, tx *sql.Tx, rec *domain.Recording) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (recording_id, position, id, speaker_id, text, start_time, end_time, small_talk, silence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, seg := range rec.Segments {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, seg.ID, seg.SpeakerID, seg.Text,
			seg.Start, seg.End, seg.SmallTalk, seg.Silence); err != nil {
			return fmt.Errorf("saving segment %s: %w", seg.ID, err)
		}
	}
	return nil
}

func insertWords(ctx context.Context, tx *sql.Tx, rec *domain.Recording) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO words (recording_id, position, text, start_time, end_time) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, w := range rec.Words {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, w.Text, w.Start, w.End); err != nil {
			return fmt.Errorf("saving word %d: %w", i, err)
		}
	}
	return nil
}

func insertSummary(ctx context.Context, tx *sql.Tx, rec *domain.Recording) error {
	points, err := tx.PrepareContext(ctx, `
		INSERT INTO summary_points (recording_id, position, id, category, text) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer points.Close()

	evidence, err := tx.PrepareContext(ctx, `
		INSERT INTO summary_evidence (recording_id, point_position, position, segment_id) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer evidence.Close()

	for i, p := range rec.Summary {
		if _, err := points.ExecContext(ctx, rec.ID, i, p.ID, p.Category, p.Text); err != nil {
			return fmt.Errorf("saving summary point %s: %w", p.ID, err)
		}
		for j, segID := range p.RelatedSegmentIDs {
			if _, err := evidence.ExecContext(ctx, rec.ID, i, j, segID); err != nil {
				return fmt.Errorf("saving evidence for %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

func loadSpeakers(ctx context.Context, db *sql.DB, id string) ([]domain.Speaker, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, role FROM speakers WHERE recording_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying speakers: %w", err)
	}
	defer rows.Close()

	var out []domain.Speaker //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sp domain.Speaker
		var role string
		if err := rows.Scan(&sp.ID, &sp.Name, &role); err != nil {
			return nil, fmt.Errorf("scanning speaker: %w", err)
		}
		sp.Role = domain.Role(role)
		out = append(out, sp)
	}
	return out, rows.Err()
}

func loadSegments(ctx context.Context, db *sql.DB, id string) ([]domain.Segment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, speaker_id, text, start_time, end_time, small_talk, silence
		FROM segments WHERE recording_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var out []domain.Segment //nolint:prealloc // size unknown from query
	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.ID, &seg.SpeakerID, &seg.Text, &seg.Start, &seg.End,
			&seg.SmallTalk, &seg.Silence); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

func loadWords(ctx context.Context, db *sql.DB, id string) ([]domain.Word, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT text, start_time, end_time FROM words WHERE recording_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying words: %w", err)
	}
	defer rows.Close()

	var out []domain.Word //nolint:prealloc // size unknown from query
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.Text, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func loadSummary(ctx context.Context, db *sql.DB, id string) ([]domain.SummaryPoint, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, category, text FROM summary_points WHERE recording_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying summary points: %w", err)
	}

	var out []domain.SummaryPoint
	for rows.Next() {
		var p domain.SummaryPoint
		if err := rows.Scan(&p.ID, &p.Category, &p.Text); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning summary point: %w", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary points: %w", err)
	}

	links, err := db.QueryContext(ctx, `
		SELECT point_position, segment_id FROM summary_evidence
		WHERE recording_id = ? ORDER BY point_position, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying evidence: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var pos int
		var segID string
		if err := links.Scan(&pos, &segID); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		if pos >= 0 && pos < len(out) {
			out[pos].RelatedSegmentIDs = append(out[pos].RelatedSegmentIDs, segID)
		}
	}
	return out, links.Err()
}
