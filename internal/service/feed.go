package service

import (
	"context"
	"log"
	"time"

	"musicgram/internal/model"
	"musicgram/internal/repository"
)

const (
	// FeedDefaultPerPage is the default number of activities per page
	FeedDefaultPerPage = 20

	// FeedMaxPerPage caps the page size
	FeedMaxPerPage = 50
)

// FeedService builds the friends-activity feed by reading the behavior log
// for the viewer's followees and joining actors and songs at query time. It
// performs no writes.
type FeedService struct {
	followRepo   repository.FollowRepository
	behaviorRepo repository.BehaviorRepository
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
}

func NewFeedService(
	followRepo repository.FollowRepository,
	behaviorRepo repository.BehaviorRepository,
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
) *FeedService {
	return &FeedService{
		followRepo:   followRepo,
		behaviorRepo: behaviorRepo,
		userRepo:     userRepo,
		songRepo:     songRepo,
	}
}

// GetFriendsActivity pages the like/play activities of everyone the viewer
// follows, newest first with the log id as tie-break so page boundaries are
// deterministic. Entries whose actor or song has since been deleted are
// dropped silently; they still count toward Total, which keeps the count
// query cheap and the gaps invisible once the cascade has settled.
func (s *FeedService) GetFriendsActivity(ctx context.Context, viewerID int64, page, perPage int) (*model.ActivityFeedResponse, error) {
	startTime := time.Now()

	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = FeedDefaultPerPage
	}
	if perPage > FeedMaxPerPage {
		perPage = FeedMaxPerPage
	}

	followingIDs, err := s.followRepo.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	// Nobody followed: no reason to touch the log at all.
	if len(followingIDs) == 0 {
		return &model.ActivityFeedResponse{
			Activities: []model.Activity{},
			Total:      0,
			Page:       page,
			PerPage:    perPage,
		}, nil
	}

	total, err := s.behaviorRepo.CountActivities(ctx, followingIDs)
	if err != nil {
		return nil, err
	}

	logs, err := s.behaviorRepo.ListActivities(ctx, followingIDs, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	activities, err := s.hydrate(ctx, logs)
	if err != nil {
		return nil, err
	}

	log.Printf("[FeedService] GetFriendsActivity OK: viewer=%d page=%d entries=%d total=%d duration=%v",
		viewerID, page, len(activities), total, time.Since(startTime))

	return &model.ActivityFeedResponse{
		Activities: activities,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// hydrate joins actors and songs in two batch queries and formats the rows
// that still resolve.
func (s *FeedService) hydrate(ctx context.Context, logs []model.BehaviorLog) ([]model.Activity, error) {
	activities := make([]model.Activity, 0, len(logs))
	if len(logs) == 0 {
		return activities, nil
	}

	userIDSet := make(map[int64]struct{})
	songIDSet := make(map[int64]struct{})
	for _, entry := range logs {
		userIDSet[entry.UserID] = struct{}{}
		if entry.SongID != nil {
			songIDSet[*entry.SongID] = struct{}{}
		}
	}

	userIDs := make([]int64, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	songIDs := make([]int64, 0, len(songIDSet))
	for id := range songIDSet {
		songIDs = append(songIDs, id)
	}

	actors, err := s.userRepo.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	songs, err := s.songRepo.GetByIDs(ctx, songIDs)
	if err != nil {
		return nil, err
	}

	for _, entry := range logs {
		if entry.SongID == nil {
			continue
		}
		actor, actorOK := actors[entry.UserID]
		song, songOK := songs[*entry.SongID]
		if !actorOK || !songOK {
			// Actor or song deleted since the log row was written.
			continue
		}
		activities = append(activities, model.Activity{
			ID:         entry.ID,
			ActionType: entry.ActionType,
			CreatedAt:  entry.CreatedAt,
			User:       actor,
			Song:       song,
		})
	}

	return activities, nil
}
