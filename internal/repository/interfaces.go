package repository

import (
	"context"

	"musicgram/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetSummaries batch-loads profile projections for feed/conversation joins.
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type SongRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	// GetByIDs batch-loads songs for feed joins. Missing IDs are simply
	// absent from the result map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Song, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// IncrementPlayCount bumps play_count by one (no dedup) and returns the
	// new value.
	IncrementPlayCount(ctx context.Context, songID int64) (int, error)
}

type FollowRepository interface {
	// Create inserts the edge. Returns false when the edge already exists.
	Create(ctx context.Context, followerID, followingID int64) (bool, error)
	// Delete removes the edge. Returns model.ErrNotFollowing when absent.
	Delete(ctx context.Context, followerID, followingID int64) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	// IsMutual reports whether both (a -> b) and (b -> a) edges exist.
	IsMutual(ctx context.Context, a, b int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64) ([]model.FollowUser, error)
	ListFollowing(ctx context.Context, userID int64) ([]model.FollowUser, error)
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

// LikeRepository owns the like fact rows AND the derived song.like_count:
// every mutation recomputes the counter from the fact table inside the same
// transaction, so the counter self-heals from any prior drift.
type LikeRepository interface {
	// Like inserts the (user, song) edge and recomputes song.like_count.
	// Returns model.ErrAlreadyLiked on a duplicate; the new count otherwise.
	Like(ctx context.Context, userID, songID int64) (int, error)
	// Unlike removes the edge and recomputes. Returns model.ErrNotLiked when
	// the edge is absent.
	Unlike(ctx context.Context, userID, songID int64) (int, error)
	Exists(ctx context.Context, userID, songID int64) (bool, error)
}

// CommentRepository owns comment rows, comment_likes, and the derived
// counters (song.comment_count over top-level comments, comment.like_count).
type CommentRepository interface {
	// Create inserts the comment and, for top-level comments, recomputes
	// song.comment_count in the same transaction. Fills ID/CreatedAt.
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// Delete removes the comment; replies go with it via ON DELETE CASCADE.
	// Deleting a top-level comment recomputes song.comment_count, which by
	// definition moves it down by exactly one. Deleting a reply leaves the
	// song counter untouched.
	Delete(ctx context.Context, id int64) error
	ListTopLevel(ctx context.Context, songID int64, limit, offset int) ([]model.Comment, error)
	CountTopLevel(ctx context.Context, songID int64) (int, error)
	// ListReplies batch-loads replies for the given top-level comments,
	// oldest first, keyed by parent ID.
	ListReplies(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error)
	// LikeComment / UnlikeComment mutate the (user, comment) edge and
	// recompute comment.like_count transactionally.
	LikeComment(ctx context.Context, userID, commentID int64) (int, error)
	UnlikeComment(ctx context.Context, userID, commentID int64) (int, error)
}

type MessageRepository interface {
	// Create persists the message and fills ID/CreatedAt.
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListBetween(ctx context.Context, a, b int64, limit, offset int) ([]model.Message, error)
	CountBetween(ctx context.Context, a, b int64) (int, error)
	// LatestPerPartner returns, for every conversation touching the user,
	// the single most recent message.
	LatestPerPartner(ctx context.Context, userID int64) ([]model.Message, error)
	// UnreadCountsBySender returns unread counts keyed by sender for the
	// given receiver.
	UnreadCountsBySender(ctx context.Context, receiverID int64) (map[int64]int, error)
	UnreadTotal(ctx context.Context, receiverID int64) (int, error)
	MarkRead(ctx context.Context, messageID int64) error
	// MarkConversationRead marks all unread messages from sender to receiver
	// and returns how many rows changed.
	MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error)
	Delete(ctx context.Context, messageID int64) error
}

// BehaviorRepository appends to and reads the immutable behavior log.
type BehaviorRepository interface {
	Insert(ctx context.Context, entry *model.BehaviorLog) error
	// ListActivities pages the feed source rows: like/play actions with a
	// song reference by any of the given users, newest first with the log id
	// as tie-break so pagination stays deterministic.
	ListActivities(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error)
	CountActivities(ctx context.Context, userIDs []int64) (int, error)
}

type PlayHistoryRepository interface {
	Create(ctx context.Context, ph *model.PlayHistory) error
}
