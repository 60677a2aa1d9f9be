package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a song. Threading is two-level only:
// top-level comments have ParentID nil, replies reference a top-level
// comment. A reply never references another reply.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	SongID    int64     `db:"song_id" json:"song_id"`
	Content   string    `db:"content" json:"content"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	LikeCount int       `db:"like_count" json:"like_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in comments table)
	Author  *UserSummary `json:"author,omitempty"`
	Replies []Comment    `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment starts a thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// CreateCommentRequest is the request body for adding a comment.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentListResponse is the paginated comment list for a song. Replies are
// nested under their top-level comment; Total counts top-level comments only.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// MaxCommentLength caps comment content.
const MaxCommentLength = 500

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNotCommentOwner     = errors.New("not the owner of this comment")
	ErrCommentRequired     = errors.New("comment content is required")
	ErrCommentTooLong      = errors.New("comment content too long")
	ErrReplyToReply        = errors.New("cannot reply to a reply")
	ErrCommentAlreadyLiked = errors.New("comment already liked")
	ErrCommentNotLiked     = errors.New("comment not liked yet")
)
