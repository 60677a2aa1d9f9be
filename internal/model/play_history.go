package model

import "time"

// PlayHistory is one play of a song by a user. Plays are intentionally not
// deduplicated; every play inserts a row and bumps the song play counter.
type PlayHistory struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	SongID         int64     `db:"song_id" json:"song_id"`
	PlayDuration   int       `db:"play_duration" json:"play_duration"` // seconds
	CompletionRate float64   `db:"completion_rate" json:"completion_rate"`
	Source         *string   `db:"source" json:"source,omitempty"` // "feed", "search", ...
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RecordPlayRequest is the request body for recording a play.
type RecordPlayRequest struct {
	Duration       int     `json:"duration"`
	CompletionRate float64 `json:"completion_rate"`
	Source         *string `json:"source,omitempty"`
}
