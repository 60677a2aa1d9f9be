package service

import (
	"context"
	"encoding/json"
	"log"

	"musicgram/internal/model"
	"musicgram/internal/repository"
)

// BehaviorRecorder appends rows to the immutable behavior log. Recording is
// strictly best-effort: a failed append is logged to the operator channel and
// swallowed, so a telemetry outage can never fail the user-facing operation
// that triggered it. The log feeds the friends-activity feed, but likes,
// comments and follows remain the source of truth for core state.
type BehaviorRecorder struct {
	behaviorRepo repository.BehaviorRepository
}

func NewBehaviorRecorder(behaviorRepo repository.BehaviorRepository) *BehaviorRecorder {
	return &BehaviorRecorder{behaviorRepo: behaviorRepo}
}

// Record stamps the entry with the request's client info (when the transport
// layer put it on the context) and appends it. Errors are swallowed.
func (r *BehaviorRecorder) Record(ctx context.Context, entry *model.BehaviorLog) {
	if info, ok := model.ClientInfoFromContext(ctx); ok {
		if info.IPAddress != "" {
			entry.IPAddress = &info.IPAddress
		}
		if info.UserAgent != "" {
			entry.UserAgent = &info.UserAgent
		}
	}

	if err := r.behaviorRepo.Insert(ctx, entry); err != nil {
		log.Printf("[BehaviorRecorder] Record FAILED: user=%d action=%s err=%v",
			entry.UserID, entry.ActionType, err)
	}
}

func (r *BehaviorRecorder) LogPlay(ctx context.Context, userID, songID int64, duration int) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionPlay,
		SongID:     &songID,
		Duration:   &duration,
	})
}

func (r *BehaviorRecorder) LogLike(ctx context.Context, userID, songID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionLike,
		SongID:     &songID,
	})
}

func (r *BehaviorRecorder) LogUnlike(ctx context.Context, userID, songID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionUnlike,
		SongID:     &songID,
	})
}

func (r *BehaviorRecorder) LogComment(ctx context.Context, userID, songID, commentID int64, parentID *int64) {
	meta := map[string]interface{}{"comment_id": commentID}
	if parentID != nil {
		meta["parent_id"] = *parentID
		meta["is_reply"] = true
	}
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionComment,
		SongID:     &songID,
		Metadata:   marshalMetadata(meta),
	})
}

func (r *BehaviorRecorder) LogFollow(ctx context.Context, userID, targetUserID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionFollow,
		Metadata:   marshalMetadata(map[string]interface{}{"target_user_id": targetUserID}),
	})
}

func (r *BehaviorRecorder) LogUnfollow(ctx context.Context, userID, targetUserID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionUnfollow,
		Metadata:   marshalMetadata(map[string]interface{}{"target_user_id": targetUserID}),
	})
}

func (r *BehaviorRecorder) LogShare(ctx context.Context, userID, songID, sharedToUserID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionShare,
		SongID:     &songID,
		Metadata: marshalMetadata(map[string]interface{}{
			"shared_to_user_id": sharedToUserID,
			"share_method":      "private_message",
		}),
	})
}

func (r *BehaviorRecorder) LogViewSong(ctx context.Context, userID, songID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionViewSong,
		SongID:     &songID,
	})
}

func (r *BehaviorRecorder) LogViewUser(ctx context.Context, userID, targetUserID int64) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionViewUser,
		Metadata:   marshalMetadata(map[string]interface{}{"target_user_id": targetUserID}),
	})
}

func (r *BehaviorRecorder) LogSearch(ctx context.Context, userID int64, query string, resultCount int) {
	r.Record(ctx, &model.BehaviorLog{
		UserID:     userID,
		ActionType: model.ActionSearch,
		Metadata: marshalMetadata(map[string]interface{}{
			"query":        query,
			"result_count": resultCount,
		}),
	})
}

// marshalMetadata serializes metadata for the JSONB column. A metadata value
// that cannot marshal yields a nil column rather than a failed log append.
func marshalMetadata(meta map[string]interface{}) []byte {
	data, err := json.Marshal(meta)
	if err != nil {
		log.Printf("[BehaviorRecorder] metadata marshal failed: %v", err)
		return nil
	}
	return data
}
