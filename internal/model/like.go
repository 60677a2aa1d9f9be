package model

import (
	"errors"
	"time"
)

// Like is a (user, song) edge, unique per pair.
type Like struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SongID    int64     `db:"song_id" json:"song_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var (
	ErrAlreadyLiked = errors.New("song already liked")
	ErrNotLiked     = errors.New("song not liked yet")
)
