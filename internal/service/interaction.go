package service

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"musicgram/internal/model"
	"musicgram/internal/repository"
)

const (
	// CommentsDefaultPerPage is the default number of top-level comments per page
	CommentsDefaultPerPage = 20

	// CommentsMaxPerPage caps the page size
	CommentsMaxPerPage = 100
)

// InteractionService covers plays, song likes, comments and comment likes.
// Counter consistency is delegated to the repositories, which recompute the
// denormalized counters inside the same transaction as the fact-row write.
type InteractionService struct {
	songRepo    repository.SongRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	playRepo    repository.PlayHistoryRepository
	recorder    *BehaviorRecorder
}

func NewInteractionService(
	songRepo repository.SongRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	playRepo repository.PlayHistoryRepository,
	recorder *BehaviorRecorder,
) *InteractionService {
	return &InteractionService{
		songRepo:    songRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		playRepo:    playRepo,
		recorder:    recorder,
	}
}

// RecordPlay bumps the song play counter (every play counts, no dedup),
// appends a play_history row and logs the play behavior. Returns the new
// play count.
func (s *InteractionService) RecordPlay(ctx context.Context, userID, songID int64, req model.RecordPlayRequest) (int, error) {
	count, err := s.songRepo.IncrementPlayCount(ctx, songID)
	if err != nil {
		return 0, err
	}

	ph := &model.PlayHistory{
		UserID:         userID,
		SongID:         songID,
		PlayDuration:   req.Duration,
		CompletionRate: req.CompletionRate,
		Source:         req.Source,
	}
	if err := s.playRepo.Create(ctx, ph); err != nil {
		return 0, err
	}

	s.recorder.LogPlay(ctx, userID, songID, req.Duration)
	return count, nil
}

// Like adds the (user, song) like edge. A duplicate is a conflict, not a
// no-op: the caller gets model.ErrAlreadyLiked and the counter is unchanged.
func (s *InteractionService) Like(ctx context.Context, userID, songID int64) (int, error) {
	exists, err := s.songRepo.Exists(ctx, songID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, model.ErrSongNotFound
	}

	count, err := s.likeRepo.Like(ctx, userID, songID)
	if err != nil {
		return 0, err
	}

	log.Printf("[InteractionService] User %d liked song %d (like_count=%d)", userID, songID, count)
	s.recorder.LogLike(ctx, userID, songID)
	return count, nil
}

func (s *InteractionService) Unlike(ctx context.Context, userID, songID int64) (int, error) {
	exists, err := s.songRepo.Exists(ctx, songID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, model.ErrSongNotFound
	}

	count, err := s.likeRepo.Unlike(ctx, userID, songID)
	if err != nil {
		return 0, err
	}

	log.Printf("[InteractionService] User %d unliked song %d (like_count=%d)", userID, songID, count)
	s.recorder.LogUnlike(ctx, userID, songID)
	return count, nil
}

func (s *InteractionService) LikeStatus(ctx context.Context, userID, songID int64) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, songID)
}

// AddComment validates and persists a comment. A reply must reference a
// top-level comment on the same song; replying to a reply is rejected rather
// than silently reparented.
func (s *InteractionService) AddComment(ctx context.Context, userID, songID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrCommentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	exists, err := s.songRepo.Exists(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrSongNotFound
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.SongID != songID {
			return nil, model.ErrCommentNotFound
		}
		if !parent.IsTopLevel() {
			return nil, model.ErrReplyToReply
		}
	}

	comment := &model.Comment{
		UserID:   userID,
		SongID:   songID,
		Content:  content,
		ParentID: req.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Best-effort author join for the response
	if summaries, err := s.userRepo.GetSummaries(ctx, []int64{userID}); err == nil {
		if author, ok := summaries[userID]; ok {
			comment.Author = &author
		}
	}

	log.Printf("[InteractionService] User %d commented on song %d (comment=%d)", userID, songID, comment.ID)
	s.recorder.LogComment(ctx, userID, songID, comment.ID, comment.ParentID)
	return comment, nil
}

// DeleteComment removes the requester's own comment. Deleting a top-level
// comment takes its replies along and moves the song's comment_count down by
// exactly one; deleting a reply leaves the counter alone.
func (s *InteractionService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return model.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	log.Printf("[InteractionService] User %d deleted comment %d from song %d", userID, commentID, comment.SongID)
	return nil
}

// ListComments pages top-level comments newest first and nests each one's
// replies oldest first. Total counts top-level comments only.
func (s *InteractionService) ListComments(ctx context.Context, songID int64, page, perPage int) (*model.CommentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = CommentsDefaultPerPage
	}
	if perPage > CommentsMaxPerPage {
		perPage = CommentsMaxPerPage
	}

	exists, err := s.songRepo.Exists(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrSongNotFound
	}

	total, err := s.commentRepo.CountTopLevel(ctx, songID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListTopLevel(ctx, songID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	if len(comments) > 0 {
		parentIDs := make([]int64, len(comments))
		for i, c := range comments {
			parentIDs[i] = c.ID
		}

		replies, err := s.commentRepo.ListReplies(ctx, parentIDs)
		if err != nil {
			return nil, err
		}
		for i := range comments {
			comments[i].Replies = replies[comments[i].ID]
		}
	}

	return &model.CommentListResponse{
		Comments: comments,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

func (s *InteractionService) LikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.LikeComment(ctx, userID, commentID)
}

func (s *InteractionService) UnlikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.UnlikeComment(ctx, userID, commentID)
}
