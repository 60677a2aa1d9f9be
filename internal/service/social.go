package service

import (
	"context"
	"log"

	"musicgram/internal/model"
	"musicgram/internal/repository"
)

// SocialService owns the follow graph. The mutual-follow check it exposes is
// what gates private messaging.
type SocialService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	recorder   *BehaviorRecorder
}

func NewSocialService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	recorder *BehaviorRecorder,
) *SocialService {
	return &SocialService{
		followRepo: followRepo,
		userRepo:   userRepo,
		recorder:   recorder,
	}
}

func (s *SocialService) Follow(ctx context.Context, followerID, targetID int64) error {
	if followerID == targetID {
		return model.ErrCannotFollowSelf
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrUserNotFound
	}

	inserted, err := s.followRepo.Create(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	log.Printf("[SocialService] User %d followed user %d", followerID, targetID)
	s.recorder.LogFollow(ctx, followerID, targetID)
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, targetID); err != nil {
		return err
	}

	log.Printf("[SocialService] User %d unfollowed user %d", followerID, targetID)
	s.recorder.LogUnfollow(ctx, followerID, targetID)
	return nil
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, targetID)
}

// IsMutual reports whether both directed edges exist. Messaging calls this;
// nothing else should.
func (s *SocialService) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	return s.followRepo.IsMutual(ctx, a, b)
}

func (s *SocialService) GetFollowers(ctx context.Context, userID int64) (*model.FollowListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	users, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.FollowListResponse{Users: users, Total: len(users)}, nil
}

func (s *SocialService) GetFollowing(ctx context.Context, userID int64) (*model.FollowListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	users, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.FollowListResponse{Users: users, Total: len(users)}, nil
}
