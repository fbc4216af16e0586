package tracks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/minigolf/internal/course"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/models"
)

// RatingBuckets is the number of rating scores a track keeps counts for (0..10).
const RatingBuckets = 11

var (
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	ErrDuplicate     = errors.New("track with this author and name already exists")
)

const trackColumns = `id, name, author, version, categories, settings, ratings,
	record_name, record_strokes, record_at, map_data, raw, created_at`

// Repository stores tracks in PostgreSQL.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// InsertTrack stores a parsed track along with the raw text it came from.
func (r *Repository) InsertTrack(ctx context.Context, track *course.Track, raw string) (int64, error) {
	mapData, err := track.Map.Encode()
	if err != nil {
		// Still storable: raw is what gets reparsed.
		log.Printf("[TRACKS] Map for %q cannot be re-encoded: %v", track.Name, err)
		mapData = ""
	}

	var recordName sql.NullString
	var recordAt sql.NullTime
	if track.Record.Name != "" {
		recordName = sql.NullString{String: track.Record.Name, Valid: true}
		recordAt = sql.NullTime{Time: track.Record.Timestamp, Valid: true}
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO tracks (name, author, version, categories, settings, ratings, record_name, record_at, map_data, raw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id
	`, track.Name, track.Author, track.Version, int64(track.Categories), track.Settings.String(),
		pq.Array(toInt64s(track.Ratings)), recordName, recordAt, mapData, raw).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s/%s", ErrDuplicate, track.Author, track.Name)
		}
		return 0, fmt.Errorf("insert track: %w", err)
	}
	return id, nil
}

func (r *Repository) GetTrack(ctx context.Context, id int64) (*models.TrackRow, error) {
	var row models.TrackRow
	err := r.db.GetContext(ctx, &row, `SELECT `+trackColumns+` FROM tracks WHERE id=$1`, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return &row, nil
}

// TrackRaw returns the stored track text. It makes Repository a game.TrackSource.
func (r *Repository) TrackRaw(ctx context.Context, id int64) (string, error) {
	var raw string
	if err := r.db.GetContext(ctx, &raw, `SELECT raw FROM tracks WHERE id=$1`, id); err != nil {
		return "", notFound(err, id)
	}
	return raw, nil
}

// ListTracks returns tracks carrying every flag in category (0 matches all),
// newest first.
func (r *Repository) ListTracks(ctx context.Context, category course.Category, limit, offset int) ([]models.TrackRow, error) {
	limit, offset = clampPage(limit, offset)

	rows := []models.TrackRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+trackColumns+`
		FROM tracks
		WHERE ($1 = 0 OR (categories & $1) = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, int64(category), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return rows, nil
}

// AddRating counts one vote for score and returns the updated histogram.
func (r *Repository) AddRating(ctx context.Context, id int64, score int) ([]int64, error) {
	if score < 0 || score >= RatingBuckets {
		return nil, ErrInvalidRating
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ratings pq.Int64Array
	if err := tx.GetContext(ctx, &ratings, `SELECT ratings FROM tracks WHERE id=$1 FOR UPDATE`, id); err != nil {
		return nil, notFound(err, id)
	}

	updated := addVote(ratings, score)
	if _, err := tx.ExecContext(ctx, `UPDATE tracks SET ratings=$2 WHERE id=$1`, id, pq.Array(updated)); err != nil {
		return nil, fmt.Errorf("update ratings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateRecord stores a new best result. It reports false when the track
// already holds a record of strokes or fewer.
func (r *Repository) UpdateRecord(ctx context.Context, id int64, name string, strokes int, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tracks
		SET record_name=$2, record_strokes=$3, record_at=$4
		WHERE id=$1 AND (record_strokes IS NULL OR record_strokes > $3)
	`, id, name, strokes, at.UTC())
	if err != nil {
		return false, fmt.Errorf("update record: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM tracks WHERE id=$1)`, id); err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: %d", game.ErrTrackNotFound, id)
	}
	return false, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", game.ErrTrackNotFound, id)
	}
	return err
}

// addVote returns a copy of ratings, padded to RatingBuckets, with one more
// vote for score.
func addVote(ratings []int64, score int) []int64 {
	n := len(ratings)
	if n < RatingBuckets {
		n = RatingBuckets
	}
	out := make([]int64, n)
	copy(out, ratings)
	out[score]++
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toInt64s(ns []int) []int64 {
	out := make([]int64, len(ns))
	for i, n := range ns {
		out[i] = int64(n)
	}
	return out
}

// AverageRating is the mean score of a rating histogram, or 0 with no votes.
func AverageRating(ratings []int64) float64 {
	var votes, total int64
	for score, count := range ratings {
		votes += count
		total += int64(score) * count
	}
	if votes == 0 {
		return 0
	}
	return float64(total) / float64(votes)
}
