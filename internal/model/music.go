package model

import (
	"errors"
	"time"
)

// Artist represents a catalog artist.
type Artist struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url"`
	Bio       *string   `db:"bio" json:"bio"`
	Genre     *string   `db:"genre" json:"genre"`
	Country   *string   `db:"country" json:"country"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Album represents a catalog album.
type Album struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ArtistID    int64      `db:"artist_id" json:"artist_id"`
	CoverURL    *string    `db:"cover_url" json:"cover_url"`
	ReleaseDate *time.Time `db:"release_date" json:"release_date"`
	CreatedAt   time.Time  `db:"created_at" json:"-"`
	UpdatedAt   time.Time  `db:"updated_at" json:"-"`
}

// Song represents a catalog song with its denormalized interaction counters.
// The counters are derived values: like_count and comment_count must always
// equal the count of the matching fact rows, play_count is a plain monotonic
// increment with no dedup.
type Song struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	ArtistID     int64     `db:"artist_id" json:"artist_id"`
	AlbumID      *int64    `db:"album_id" json:"album_id,omitempty"`
	Duration     int       `db:"duration" json:"duration"` // seconds
	Genre        *string   `db:"genre" json:"genre"`
	CoverURL     *string   `db:"cover_url" json:"cover_url"`
	PlayCount    int       `db:"play_count" json:"play_count"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`

	// Joined field (not in songs table)
	ArtistName *string `db:"artist_name" json:"artist_name,omitempty"`
}

var (
	// ErrSongNotFound is returned when a song cannot be found
	ErrSongNotFound = errors.New("song not found")
)
