package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Behavior action types. The log is append-only; rows are never updated or
// deleted except by cascading user deletion.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionPlay           = "play"
	ActionLike           = "like"
	ActionUnlike         = "unlike"
	ActionComment        = "comment"
	ActionFollow         = "follow"
	ActionUnfollow       = "unfollow"
	ActionViewSong       = "view_song"
	ActionViewUser       = "view_user"
	ActionSearch         = "search"
	ActionShare          = "share"
	ActionProfileUpdate  = "profile_update"
	ActionPasswordChange = "password_change"
	ActionAvatarUpload   = "avatar_upload"
)

// BehaviorLog is one immutable behavior record. It doubles as the audit
// trail and as the durable event stream behind the friends-activity feed.
type BehaviorLog struct {
	ID         int64          `db:"id" json:"id"`
	UserID     int64          `db:"user_id" json:"user_id"`
	ActionType string         `db:"action_type" json:"action_type"`
	SongID     *int64         `db:"song_id" json:"song_id,omitempty"`
	ArtistID   *int64         `db:"artist_id" json:"artist_id,omitempty"`
	Duration   *int           `db:"duration" json:"duration,omitempty"` // seconds, play events
	Metadata   types.JSONText `db:"metadata" json:"metadata,omitempty"`
	IPAddress  *string        `db:"ip_address" json:"-"`
	UserAgent  *string        `db:"user_agent" json:"-"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// ClientInfo carries the request origin captured by the transport layer.
// It travels on the context so the behavior recorder can stamp log rows
// without every service signature threading it through.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type clientInfoKey struct{}

// WithClientInfo returns a context carrying the client info.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext extracts the client info, if present.
func ClientInfoFromContext(ctx context.Context) (ClientInfo, bool) {
	info, ok := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info, ok
}
