package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"musicgram/internal/model"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, m.SenderID, m.ReceiverID, m.Content).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE id = $1
	`
	var m model.Message
	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &m, nil
}

func (r *messageRepository) ListBetween(ctx context.Context, a, b int64, limit, offset int) ([]model.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	var messages []model.Message
	err := r.db.SelectContext(ctx, &messages, query, a, b, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages between users: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) CountBetween(ctx context.Context, a, b int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, a, b)
	if err != nil {
		return 0, fmt.Errorf("count messages between users: %w", err)
	}
	return count, nil
}

// LatestPerPartner collapses the user's message history to the single most
// recent message per conversation partner using DISTINCT ON.
func (r *messageRepository) LatestPerPartner(ctx context.Context, userID int64) ([]model.Message, error) {
	query := `
		SELECT DISTINCT ON (partner_id)
		       id, sender_id, receiver_id, content, is_read, created_at
		FROM (
			SELECT *,
			       CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		) m
		ORDER BY partner_id, created_at DESC, id DESC
	`

	var messages []model.Message
	err := r.db.SelectContext(ctx, &messages, query, userID)
	if err != nil {
		return nil, fmt.Errorf("latest message per partner: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) UnreadCountsBySender(ctx context.Context, receiverID int64) (map[int64]int, error) {
	query := `
		SELECT sender_id, COUNT(*) AS unread
		FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		GROUP BY sender_id
	`

	var rows []struct {
		SenderID int64 `db:"sender_id"`
		Unread   int   `db:"unread"`
	}
	err := r.db.SelectContext(ctx, &rows, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("unread counts by sender: %w", err)
	}

	result := make(map[int64]int, len(rows))
	for _, row := range rows {
		result[row.SenderID] = row.Unread
	}
	return result, nil
}

func (r *messageRepository) UnreadTotal(ctx context.Context, receiverID int64) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = FALSE`
	var count int
	err := r.db.GetContext(ctx, &count, query, receiverID)
	if err != nil {
		return 0, fmt.Errorf("unread total: %w", err)
	}
	return count, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, messageID int64) error {
	query := `UPDATE messages SET is_read = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, messageID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, receiverID, senderID)
	if err != nil {
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *messageRepository) Delete(ctx context.Context, messageID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}
