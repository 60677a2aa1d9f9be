package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"musicgram/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow edge. ON CONFLICT DO NOTHING plus RowsAffected
// makes the duplicate case detectable without a prior existence check, so
// concurrent follow attempts are serialized by the unique constraint.
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}

	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// IsMutual checks both directions in one round trip. Messaging is gated on
// this, so it counts edges rather than fetching them.
func (r *followRepository) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	query := `
		SELECT COUNT(*) FROM follows
		WHERE (follower_id = $1 AND following_id = $2)
		   OR (follower_id = $2 AND following_id = $1)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check mutual follow: %w", err)
	}
	return count == 2, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	query := `
		SELECT u.id, u.username, u.nickname, u.avatar_url, u.bio, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.FollowUser
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	query := `
		SELECT u.id, u.username, u.nickname, u.avatar_url, u.bio, f.created_at AS followed_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.FollowUser
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

func (r *followRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT following_id FROM follows WHERE follower_id = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}
