package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"musicgram/internal/model"
)

type songRepository struct {
	db *sqlx.DB
}

func NewSongRepository(db *sqlx.DB) SongRepository {
	return &songRepository{db: db}
}

func (r *songRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist_id, s.album_id, s.duration, s.genre, s.cover_url,
		       s.play_count, s.like_count, s.comment_count, s.created_at, s.updated_at,
		       a.name AS artist_name
		FROM songs s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.id = $1
	`

	var s model.Song
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song by id: %w", err)
	}

	return &s, nil
}

func (r *songRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Song, error) {
	result := make(map[int64]model.Song)
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT s.id, s.title, s.artist_id, s.album_id, s.duration, s.genre, s.cover_url,
		       s.play_count, s.like_count, s.comment_count, s.created_at, s.updated_at,
		       a.name AS artist_name
		FROM songs s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.id = ANY($1)
	`

	var songs []model.Song
	err := r.db.SelectContext(ctx, &songs, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get songs by ids: %w", err)
	}

	for _, s := range songs {
		result[s.ID] = s
	}
	return result, nil
}

func (r *songRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check song existence: %w", err)
	}

	return exists, nil
}

// IncrementPlayCount bumps play_count in place. Plays carry no uniqueness
// constraint, so there is nothing to recompute from; the counter is a plain
// monotonic increment.
func (r *songRepository) IncrementPlayCount(ctx context.Context, songID int64) (int, error) {
	query := `
		UPDATE songs SET play_count = play_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING play_count
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, songID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, model.ErrSongNotFound
		}
		return 0, fmt.Errorf("failed to increment play count: %w", err)
	}

	return count, nil
}
