package model

import (
	"errors"
	"time"
)

// Follow is a directed edge in the social graph. "Mutual" means the edge
// exists in both directions.
type Follow struct {
	FollowerID  int64     `db:"follower_id" json:"follower_id"`
	FollowingID int64     `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FollowUser is a follower/following list entry: profile projection plus the
// time the edge was created.
type FollowUser struct {
	UserSummary
	Bio        *string   `db:"bio" json:"bio"`
	FollowedAt time.Time `db:"followed_at" json:"followed_at"`
}

// FollowListResponse wraps a follower or following list.
type FollowListResponse struct {
	Users []FollowUser `json:"users"`
	Total int          `json:"total"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
