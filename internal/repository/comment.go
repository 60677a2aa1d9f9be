package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"musicgram/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and, when it starts a thread, recomputes the
// song's comment_count in the same transaction. Replies never touch the song
// counter: comment_count counts top-level comments only.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO comments (user_id, song_id, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, like_count, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query, c.UserID, c.SongID, c.Content, c.ParentID).
		Scan(&c.ID, &c.LikeCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if c.IsTopLevel() {
		if err := r.recomputeCommentCount(ctx, tx, c.SongID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT id, user_id, song_id, content, parent_id, like_count, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// Delete removes the comment; ON DELETE CASCADE takes its replies along. The
// row is re-read inside the transaction so the counter decision is based on
// the state actually deleted.
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var row struct {
		SongID   int64  `db:"song_id"`
		ParentID *int64 `db:"parent_id"`
	}
	err = tx.GetContext(ctx, &row, `SELECT song_id, parent_id FROM comments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return model.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if row.ParentID == nil {
		if err := r.recomputeCommentCount(ctx, tx, row.SongID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, songID int64, limit, offset int) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.song_id, c.content, c.parent_id, c.like_count,
		       c.created_at, c.updated_at,
		       u.id AS "author.id", u.username AS "author.username",
		       u.nickname AS "author.nickname", u.avatar_url AS "author.avatar_url"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.song_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.scanCommentRows(ctx, query, songID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list top-level comments: %w", err)
	}
	return rows, nil
}

func (r *commentRepository) CountTopLevel(ctx context.Context, songID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM comments WHERE song_id = $1 AND parent_id IS NULL
	`, songID)
	if err != nil {
		return 0, fmt.Errorf("count top-level comments: %w", err)
	}
	return count, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error) {
	result := make(map[int64][]model.Comment)
	if len(parentIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT c.id, c.user_id, c.song_id, c.content, c.parent_id, c.like_count,
		       c.created_at, c.updated_at,
		       u.id AS "author.id", u.username AS "author.username",
		       u.nickname AS "author.nickname", u.avatar_url AS "author.avatar_url"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC
	`

	replies, err := r.scanCommentRows(ctx, query, pq.Array(parentIDs))
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	for _, reply := range replies {
		result[*reply.ParentID] = append(result[*reply.ParentID], reply)
	}
	return result, nil
}

// LikeComment inserts the (user, comment) edge and recomputes the comment's
// like_count, same recompute-then-write discipline as song likes.
func (r *commentRepository) LikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO comment_likes (user_id, comment_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, comment_id) DO NOTHING
	`, userID, commentID)
	if err != nil {
		return 0, fmt.Errorf("insert comment like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, model.ErrCommentAlreadyLiked
	}

	count, err := r.recomputeCommentLikeCount(ctx, tx, commentID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return count, nil
}

func (r *commentRepository) UnlikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2
	`, userID, commentID)
	if err != nil {
		return 0, fmt.Errorf("delete comment like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, model.ErrCommentNotLiked
	}

	count, err := r.recomputeCommentLikeCount(ctx, tx, commentID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return count, nil
}

func (r *commentRepository) recomputeCommentCount(ctx context.Context, tx *sqlx.Tx, songID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE songs
		SET comment_count = (SELECT COUNT(*) FROM comments WHERE song_id = $1 AND parent_id IS NULL),
		    updated_at = NOW()
		WHERE id = $1
	`, songID)
	if err != nil {
		return fmt.Errorf("recompute comment count: %w", err)
	}
	return nil
}

func (r *commentRepository) recomputeCommentLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		UPDATE comments
		SET like_count = (SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING like_count
	`, commentID)
	if err != nil {
		return 0, fmt.Errorf("recompute comment like count: %w", err)
	}
	return count, nil
}

// scanCommentRows runs a comment query whose projection includes the joined
// author columns and maps them onto Comment.Author.
func (r *commentRepository) scanCommentRows(ctx context.Context, query string, args ...interface{}) ([]model.Comment, error) {
	type commentRow struct {
		ID             int64     `db:"id"`
		UserID         int64     `db:"user_id"`
		SongID         int64     `db:"song_id"`
		Content        string    `db:"content"`
		ParentID       *int64    `db:"parent_id"`
		LikeCount      int       `db:"like_count"`
		CreatedAt      time.Time `db:"created_at"`
		UpdatedAt      time.Time `db:"updated_at"`
		AuthorID       int64     `db:"author.id"`
		AuthorUsername string    `db:"author.username"`
		AuthorNickname *string   `db:"author.nickname"`
		AuthorAvatar   *string   `db:"author.avatar_url"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:        row.ID,
			UserID:    row.UserID,
			SongID:    row.SongID,
			Content:   row.Content,
			ParentID:  row.ParentID,
			LikeCount: row.LikeCount,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Author: &model.UserSummary{
				ID:        row.AuthorID,
				Username:  row.AuthorUsername,
				Nickname:  row.AuthorNickname,
				AvatarURL: row.AuthorAvatar,
			},
		}
	}
	return comments, nil
}
