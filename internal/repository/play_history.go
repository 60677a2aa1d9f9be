package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"musicgram/internal/model"
)

type playHistoryRepository struct {
	db *sqlx.DB
}

func NewPlayHistoryRepository(db *sqlx.DB) PlayHistoryRepository {
	return &playHistoryRepository{db: db}
}

func (r *playHistoryRepository) Create(ctx context.Context, ph *model.PlayHistory) error {
	query := `
		INSERT INTO play_history (user_id, song_id, play_duration, completion_rate, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		ph.UserID, ph.SongID, ph.PlayDuration, ph.CompletionRate, ph.Source,
	).Scan(&ph.ID, &ph.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert play history: %w", err)
	}
	return nil
}
