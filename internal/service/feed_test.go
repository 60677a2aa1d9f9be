package service

import (
	"context"
	"testing"
	"time"

	"musicgram/internal/model"
)

func feedLog(id, userID, songID int64, action string, at time.Time) model.BehaviorLog {
	return model.BehaviorLog{
		ID:         id,
		UserID:     userID,
		ActionType: action,
		SongID:     &songID,
		CreatedAt:  at,
	}
}

func TestFeedService_GetFriendsActivity_EmptyFollowing(t *testing.T) {
	behaviorRepo := &mockBehaviorRepository{
		listActivitiesFn: func(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
			t.Fatal("log should not be queried when the viewer follows nobody")
			return nil, nil
		},
	}
	svc := NewFeedService(&mockFollowRepository{}, behaviorRepo, &mockUserRepository{}, &mockSongRepository{})

	result, err := svc.GetFriendsActivity(context.Background(), 1, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Activities) != 0 {
		t.Errorf("expected empty feed, got total=%d entries=%d", result.Total, len(result.Activities))
	}
}

func TestFeedService_GetFriendsActivity_JoinsActorsAndSongs(t *testing.T) {
	// Viewer 1 follows users 2 and 3; both have liked or played songs.
	now := time.Now()
	followRepo := &mockFollowRepository{
		getFollowingIDsFn: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{2, 3}, nil
		},
	}
	behaviorRepo := &mockBehaviorRepository{
		countActivitiesFn: func(ctx context.Context, userIDs []int64) (int, error) {
			return 3, nil
		},
		listActivitiesFn: func(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
			return []model.BehaviorLog{
				feedLog(30, 3, 100, model.ActionPlay, now),
				feedLog(20, 2, 200, model.ActionLike, now.Add(-time.Minute)),
				feedLog(10, 2, 100, model.ActionLike, now.Add(-2*time.Minute)),
			}, nil
		},
	}
	userRepo := &mockUserRepository{
		getSummariesFn: func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
			return map[int64]model.UserSummary{
				2: {ID: 2, Username: "bob"},
				3: {ID: 3, Username: "carol"},
			}, nil
		},
	}
	songRepo := &mockSongRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) (map[int64]model.Song, error) {
			return map[int64]model.Song{
				100: {ID: 100, Title: "First"},
				200: {ID: 200, Title: "Second"},
			}, nil
		},
	}
	svc := NewFeedService(followRepo, behaviorRepo, userRepo, songRepo)

	result, err := svc.GetFriendsActivity(context.Background(), 1, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
	if len(result.Activities) != 3 {
		t.Fatalf("activities = %d, want 3", len(result.Activities))
	}

	// Newest first, actor and song joined
	first := result.Activities[0]
	if first.ID != 30 {
		t.Errorf("first activity id = %d, want 30", first.ID)
	}
	if first.User.Username != "carol" {
		t.Errorf("first actor = %q, want carol", first.User.Username)
	}
	if first.Song.Title != "First" {
		t.Errorf("first song = %q, want First", first.Song.Title)
	}
	if first.ActionType != model.ActionPlay {
		t.Errorf("first action = %q, want %q", first.ActionType, model.ActionPlay)
	}
}

func TestFeedService_GetFriendsActivity_DropsDanglingRows(t *testing.T) {
	now := time.Now()
	followRepo := &mockFollowRepository{
		getFollowingIDsFn: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{2}, nil
		},
	}
	behaviorRepo := &mockBehaviorRepository{
		countActivitiesFn: func(ctx context.Context, userIDs []int64) (int, error) {
			return 2, nil
		},
		listActivitiesFn: func(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
			return []model.BehaviorLog{
				feedLog(2, 2, 100, model.ActionLike, now),
				feedLog(1, 2, 999, model.ActionLike, now.Add(-time.Minute)), // deleted song
			}, nil
		},
	}
	songRepo := &mockSongRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) (map[int64]model.Song, error) {
			return map[int64]model.Song{100: {ID: 100}}, nil
		},
	}
	svc := NewFeedService(followRepo, behaviorRepo, &mockUserRepository{}, songRepo)

	result, err := svc.GetFriendsActivity(context.Background(), 1, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The dangling row is dropped from the page but still counted
	if len(result.Activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(result.Activities))
	}
	if result.Activities[0].ID != 2 {
		t.Errorf("kept activity id = %d, want 2", result.Activities[0].ID)
	}
	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
}

func TestFeedService_GetFriendsActivity_PaginationPassthrough(t *testing.T) {
	var gotLimit, gotOffset int
	followRepo := &mockFollowRepository{
		getFollowingIDsFn: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{2}, nil
		},
	}
	behaviorRepo := &mockBehaviorRepository{
		listActivitiesFn: func(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
			gotLimit, gotOffset = limit, offset
			return []model.BehaviorLog{}, nil
		},
	}
	svc := NewFeedService(followRepo, behaviorRepo, &mockUserRepository{}, &mockSongRepository{})

	if _, err := svc.GetFriendsActivity(context.Background(), 1, 3, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("limit/offset = %d/%d, want 10/20", gotLimit, gotOffset)
	}

	// Out-of-range per_page is clamped
	if _, err := svc.GetFriendsActivity(context.Background(), 1, 1, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != FeedMaxPerPage {
		t.Errorf("limit = %d, want clamped %d", gotLimit, FeedMaxPerPage)
	}

	// Zero and negative values fall back to defaults
	if _, err := svc.GetFriendsActivity(context.Background(), 1, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != FeedDefaultPerPage || gotOffset != 0 {
		t.Errorf("limit/offset = %d/%d, want %d/0", gotLimit, gotOffset, FeedDefaultPerPage)
	}
}
