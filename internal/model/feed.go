package model

import "time"

// Activity is one friends-activity feed entry: a followee liked or played a
// song. Actor and song are joined at query time; entries whose actor or song
// has since been deleted are dropped silently.
type Activity struct {
	ID         int64       `json:"id"`
	ActionType string      `json:"action_type"`
	CreatedAt  time.Time   `json:"created_at"`
	User       UserSummary `json:"user"`
	Song       Song        `json:"song"`
}

// ActivityFeedResponse is the paginated friends-activity feed.
type ActivityFeedResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
}
