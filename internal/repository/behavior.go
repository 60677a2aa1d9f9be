package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"musicgram/internal/model"
)

type behaviorRepository struct {
	db *sqlx.DB
}

func NewBehaviorRepository(db *sqlx.DB) BehaviorRepository {
	return &behaviorRepository{db: db}
}

// Insert appends one log row. The table is append-only: no update or delete
// statements exist in this repository by design.
func (r *behaviorRepository) Insert(ctx context.Context, entry *model.BehaviorLog) error {
	query := `
		INSERT INTO user_behavior_logs
			(user_id, action_type, song_id, artist_id, duration, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	metadata := entry.Metadata
	if len(metadata) == 0 {
		metadata = nil
	}

	err := r.db.QueryRowxContext(ctx, query,
		entry.UserID,
		entry.ActionType,
		entry.SongID,
		entry.ArtistID,
		entry.Duration,
		metadata,
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert behavior log: %w", err)
	}
	return nil
}

// ListActivities pages feed source rows. Ordering is (created_at, id)
// descending: the id tie-break keeps pagination deterministic when several
// rows share a timestamp.
func (r *behaviorRepository) ListActivities(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, action_type, song_id, artist_id, duration, metadata,
		       ip_address, user_agent, created_at
		FROM user_behavior_logs
		WHERE user_id = ANY($1)
		  AND action_type IN ('like', 'play')
		  AND song_id IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var logs []model.BehaviorLog
	err := r.db.SelectContext(ctx, &logs, query, pq.Array(userIDs), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return logs, nil
}

func (r *behaviorRepository) CountActivities(ctx context.Context, userIDs []int64) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM user_behavior_logs
		WHERE user_id = ANY($1)
		  AND action_type IN ('like', 'play')
		  AND song_id IS NOT NULL
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, pq.Array(userIDs))
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return count, nil
}
