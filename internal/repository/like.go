package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"musicgram/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Like inserts the like edge and recomputes song.like_count from the fact
// table before commit. Recompute-then-write instead of increment-in-place:
// the counter always equals COUNT(likes), so it can never drift or go
// negative, and it repairs any drift left behind by earlier failures.
// Concurrent likes on the same song serialize on the unique constraint and
// the song row update.
func (r *likeRepository) Like(ctx context.Context, userID, songID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO likes (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`, userID, songID)
	if err != nil {
		return 0, fmt.Errorf("insert like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, model.ErrAlreadyLiked
	}

	count, err := r.recomputeLikeCount(ctx, tx, songID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return count, nil
}

// Unlike removes the like edge and recomputes. Missing edge rolls back with
// model.ErrNotLiked; the counter is untouched.
func (r *likeRepository) Unlike(ctx context.Context, userID, songID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND song_id = $2
	`, userID, songID)
	if err != nil {
		return 0, fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, model.ErrNotLiked
	}

	count, err := r.recomputeLikeCount(ctx, tx, songID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return count, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, songID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND song_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, songID)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

func (r *likeRepository) recomputeLikeCount(ctx context.Context, tx *sqlx.Tx, songID int64) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		UPDATE songs
		SET like_count = (SELECT COUNT(*) FROM likes WHERE song_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING like_count
	`, songID)
	if err != nil {
		return 0, fmt.Errorf("recompute like count: %w", err)
	}
	return count, nil
}
