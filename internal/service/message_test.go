package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"musicgram/internal/model"
	"musicgram/internal/notify"
)

type messageMocks struct {
	messageRepo  *mockMessageRepository
	followRepo   *mockFollowRepository
	userRepo     *mockUserRepository
	behaviorRepo *mockBehaviorRepository
	publisher    *mockPublisher
	unread       *mockUnreadCache
}

func newMessageService(m *messageMocks, gateEnabled bool) *MessageService {
	if m.messageRepo == nil {
		m.messageRepo = &mockMessageRepository{}
	}
	if m.followRepo == nil {
		m.followRepo = &mockFollowRepository{}
	}
	if m.userRepo == nil {
		m.userRepo = &mockUserRepository{}
	}
	if m.behaviorRepo == nil {
		m.behaviorRepo = &mockBehaviorRepository{}
	}
	if m.publisher == nil {
		m.publisher = &mockPublisher{}
	}
	if m.unread == nil {
		m.unread = &mockUnreadCache{}
	}
	return NewMessageService(
		m.messageRepo, m.followRepo, m.userRepo,
		NewBehaviorRecorder(m.behaviorRepo), m.publisher, m.unread, gateEnabled)
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestMessageService_Send_Success(t *testing.T) {
	mocks := &messageMocks{
		followRepo: &mockFollowRepository{
			isMutualFn: func(ctx context.Context, a, b int64) (bool, error) {
				return true, nil
			},
		},
	}
	svc := newMessageService(mocks, true)

	msg, err := svc.Send(context.Background(), 1, model.SendMessageRequest{
		ReceiverID: 2,
		Content:    "hey, listen to this",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID != 1 {
		t.Errorf("id = %d, want 1", msg.ID)
	}

	// Unread counter bumped for the receiver
	if len(mocks.unread.incrementCalls) != 1 || mocks.unread.incrementCalls[0] != 2 {
		t.Errorf("unread increments = %v, want [2]", mocks.unread.incrementCalls)
	}

	// One live event on the receiver's channel
	if len(mocks.publisher.publishCalls) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(mocks.publisher.publishCalls))
	}
	call := mocks.publisher.publishCalls[0]
	if call.Channel != notify.UserChannel(2) {
		t.Errorf("channel = %q, want %q", call.Channel, notify.UserChannel(2))
	}
	if call.Event.Type != notify.EventNewMessage {
		t.Errorf("event type = %q, want %q", call.Event.Type, notify.EventNewMessage)
	}

	// Ordinary text is not a song share
	if len(mocks.behaviorRepo.insertCalls) != 0 {
		t.Errorf("behavior log got %d entries, want 0", len(mocks.behaviorRepo.insertCalls))
	}
}

func TestMessageService_Send_Validation(t *testing.T) {
	tests := []struct {
		name       string
		senderID   int64
		receiverID int64
		content    string
		wantErr    error
	}{
		{
			name:       "self message",
			senderID:   1,
			receiverID: 1,
			content:    "hi me",
			wantErr:    model.ErrSelfMessage,
		},
		{
			name:       "empty content",
			senderID:   1,
			receiverID: 2,
			content:    "   ",
			wantErr:    model.ErrMessageEmpty,
		},
		{
			name:       "content too long",
			senderID:   1,
			receiverID: 2,
			content:    strings.Repeat("x", model.MaxMessageLength+1),
			wantErr:    model.ErrMessageTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := &messageMocks{}
			svc := newMessageService(mocks, false)

			_, err := svc.Send(context.Background(), tt.senderID, model.SendMessageRequest{
				ReceiverID: tt.receiverID,
				Content:    tt.content,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(mocks.messageRepo.createCalls) != 0 {
				t.Error("Create should not be called when validation fails")
			}
		})
	}
}

func TestMessageService_Send_FollowGate(t *testing.T) {
	tests := []struct {
		name        string
		gateEnabled bool
		mutual      bool
		wantErr     error
	}{
		{
			name:        "gate blocks non-mutual pair",
			gateEnabled: true,
			mutual:      false,
			wantErr:     model.ErrNotMutualFollowers,
		},
		{
			name:        "gate passes mutual pair",
			gateEnabled: true,
			mutual:      true,
		},
		{
			name:        "gate disabled skips the check",
			gateEnabled: false,
			mutual:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutualChecked := false
			mocks := &messageMocks{
				followRepo: &mockFollowRepository{
					isMutualFn: func(ctx context.Context, a, b int64) (bool, error) {
						mutualChecked = true
						return tt.mutual, nil
					},
				},
			}
			svc := newMessageService(mocks, tt.gateEnabled)

			_, err := svc.Send(context.Background(), 1, model.SendMessageRequest{
				ReceiverID: 2,
				Content:    "hello",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(mocks.messageRepo.createCalls) != 0 {
					t.Error("blocked message should not be persisted")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.gateEnabled && !mutualChecked {
				t.Error("gate enabled but mutual check skipped")
			}
			if !tt.gateEnabled && mutualChecked {
				t.Error("gate disabled but mutual check ran")
			}
		})
	}
}

func TestMessageService_Send_ReceiverMissing(t *testing.T) {
	mocks := &messageMocks{
		userRepo: &mockUserRepository{
			existsFn: func(ctx context.Context, id int64) (bool, error) {
				return false, nil
			},
		},
	}
	svc := newMessageService(mocks, false)

	_, err := svc.Send(context.Background(), 1, model.SendMessageRequest{
		ReceiverID: 999,
		Content:    "anyone there?",
	})
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestMessageService_Send_SongShareLogged(t *testing.T) {
	mocks := &messageMocks{}
	svc := newMessageService(mocks, false)

	_, err := svc.Send(context.Background(), 1, model.SendMessageRequest{
		ReceiverID: 2,
		Content:    `{"type":"song_share","song":{"id":42}}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mocks.behaviorRepo.insertCalls) != 1 {
		t.Fatalf("behavior log got %d entries, want 1", len(mocks.behaviorRepo.insertCalls))
	}
	entry := mocks.behaviorRepo.insertCalls[0]
	if entry.ActionType != model.ActionShare {
		t.Errorf("action = %q, want %q", entry.ActionType, model.ActionShare)
	}
	if entry.SongID == nil || *entry.SongID != 42 {
		t.Errorf("song_id = %v, want 42", entry.SongID)
	}
}

func TestMessageService_Send_BestEffortSideEffects(t *testing.T) {
	// Publisher and cache both fail; the send still succeeds because the
	// message row is already durable.
	mocks := &messageMocks{
		publisher: &mockPublisher{
			publishFn: func(ctx context.Context, channel string, event notify.Event) error {
				return errors.New("redis down")
			},
		},
		unread: &mockUnreadCache{
			incrementFn: func(ctx context.Context, userID int64) error {
				return errors.New("redis down")
			},
		},
	}
	svc := newMessageService(mocks, false)

	msg, err := svc.Send(context.Background(), 1, model.SendMessageRequest{
		ReceiverID: 2,
		Content:    "still delivered",
	})
	if err != nil {
		t.Fatalf("send should survive side-effect failures, got: %v", err)
	}
	if msg == nil {
		t.Fatal("expected message, got nil")
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestMessageService_ListConversations(t *testing.T) {
	now := time.Now()
	mocks := &messageMocks{
		messageRepo: &mockMessageRepository{
			latestPerPartnerFn: func(ctx context.Context, userID int64) ([]model.Message, error) {
				return []model.Message{
					{ID: 5, SenderID: 1, ReceiverID: 2, Content: "older", CreatedAt: now.Add(-time.Hour)},
					{ID: 9, SenderID: 3, ReceiverID: 1, Content: "newer", CreatedAt: now},
					{ID: 7, SenderID: 4, ReceiverID: 1, Content: "gone", CreatedAt: now.Add(-time.Minute)},
				}, nil
			},
			unreadCountsBySenderFn: func(ctx context.Context, receiverID int64) (map[int64]int, error) {
				return map[int64]int{3: 2}, nil
			},
		},
		userRepo: &mockUserRepository{
			getSummariesFn: func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
				// User 4 deleted their account
				return map[int64]model.UserSummary{
					2: {ID: 2, Username: "bob"},
					3: {ID: 3, Username: "carol"},
				}, nil
			},
		},
	}
	svc := newMessageService(mocks, true)

	conversations, err := svc.ListConversations(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conversations) != 2 {
		t.Fatalf("conversations = %d, want 2 (deleted partner dropped)", len(conversations))
	}

	// Sorted by last message time, newest first
	if conversations[0].Partner.ID != 3 {
		t.Errorf("first partner = %d, want 3", conversations[0].Partner.ID)
	}
	if conversations[0].UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", conversations[0].UnreadCount)
	}
	if conversations[0].IsFromMe {
		t.Error("last message in first conversation was from the partner")
	}
	if conversations[1].Partner.ID != 2 {
		t.Errorf("second partner = %d, want 2", conversations[1].Partner.ID)
	}
	if !conversations[1].IsFromMe {
		t.Error("last message in second conversation was from the viewer")
	}
}

func TestMessageService_GetConversation_HasNext(t *testing.T) {
	mocks := &messageMocks{
		messageRepo: &mockMessageRepository{
			countBetweenFn: func(ctx context.Context, a, b int64) (int, error) {
				return 45, nil
			},
			listBetweenFn: func(ctx context.Context, a, b int64, limit, offset int) ([]model.Message, error) {
				return make([]model.Message, limit), nil
			},
		},
	}
	svc := newMessageService(mocks, true)

	result, err := svc.GetConversation(context.Background(), 1, 2, 2, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasNext {
		t.Error("page 2 of 45 at 20/page should have a next page")
	}

	result, err = svc.GetConversation(context.Background(), 1, 2, 3, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HasNext {
		t.Error("page 3 of 45 at 20/page is the last page")
	}
}

// =============================================================================
// READ STATE TESTS
// =============================================================================

func TestMessageService_MarkRead(t *testing.T) {
	tests := []struct {
		name    string
		getByID func(ctx context.Context, id int64) (*model.Message, error)
		wantErr error
	}{
		{
			name: "receiver marks read",
			getByID: func(ctx context.Context, id int64) (*model.Message, error) {
				return &model.Message{ID: id, SenderID: 2, ReceiverID: 1}, nil
			},
		},
		{
			name: "sender cannot mark read",
			getByID: func(ctx context.Context, id int64) (*model.Message, error) {
				return &model.Message{ID: id, SenderID: 1, ReceiverID: 2}, nil
			},
			wantErr: model.ErrNotMessageRecipient,
		},
		{
			name: "missing message",
			getByID: func(ctx context.Context, id int64) (*model.Message, error) {
				return nil, model.ErrMessageNotFound
			},
			wantErr: model.ErrMessageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := &messageMocks{
				messageRepo: &mockMessageRepository{getByIDFn: tt.getByID},
			}
			svc := newMessageService(mocks, true)

			err := svc.MarkRead(context.Background(), 1, 10)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(mocks.unread.invalidateCalls) != 0 {
					t.Error("cache should not be touched when mark-read fails")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mocks.unread.invalidateCalls) != 1 || mocks.unread.invalidateCalls[0] != 1 {
				t.Errorf("invalidate calls = %v, want [1]", mocks.unread.invalidateCalls)
			}
		})
	}
}

func TestMessageService_MarkConversationRead_SkipsCacheWhenNothingChanged(t *testing.T) {
	mocks := &messageMocks{
		messageRepo: &mockMessageRepository{
			markConversationReadFn: func(ctx context.Context, receiverID, senderID int64) (int64, error) {
				return 0, nil
			},
		},
	}
	svc := newMessageService(mocks, true)

	rows, err := svc.MarkConversationRead(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Errorf("rows = %d, want 0", rows)
	}
	if len(mocks.unread.invalidateCalls) != 0 {
		t.Error("cache should not be invalidated when no rows changed")
	}
}

func TestMessageService_UnreadCount(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		mocks := &messageMocks{
			unread: &mockUnreadCache{
				getFn: func(ctx context.Context, userID int64) (int64, bool, error) {
					return 7, true, nil
				},
			},
			messageRepo: &mockMessageRepository{
				unreadTotalFn: func(ctx context.Context, receiverID int64) (int, error) {
					t.Fatal("store should not be queried on a cache hit")
					return 0, nil
				},
			},
		}
		svc := newMessageService(mocks, true)

		count, err := svc.UnreadCount(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 7 {
			t.Errorf("count = %d, want 7", count)
		}
	})

	t.Run("cache miss repairs from store", func(t *testing.T) {
		mocks := &messageMocks{
			messageRepo: &mockMessageRepository{
				unreadTotalFn: func(ctx context.Context, receiverID int64) (int, error) {
					return 4, nil
				},
			},
		}
		svc := newMessageService(mocks, true)

		count, err := svc.UnreadCount(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 4 {
			t.Errorf("count = %d, want 4", count)
		}
		if len(mocks.unread.setCalls) != 1 {
			t.Errorf("cache set calls = %d, want 1", len(mocks.unread.setCalls))
		}
	})
}

func TestMessageService_Delete(t *testing.T) {
	tests := []struct {
		name           string
		requesterID    int64
		message        *model.Message
		wantErr        error
		wantInvalidate bool
	}{
		{
			name:           "sender deletes unread message, receiver cache invalidated",
			requesterID:    1,
			message:        &model.Message{ID: 10, SenderID: 1, ReceiverID: 2, IsRead: false},
			wantInvalidate: true,
		},
		{
			name:        "receiver deletes read message, cache untouched",
			requesterID: 2,
			message:     &model.Message{ID: 10, SenderID: 1, ReceiverID: 2, IsRead: true},
		},
		{
			name:        "outsider is rejected",
			requesterID: 3,
			message:     &model.Message{ID: 10, SenderID: 1, ReceiverID: 2},
			wantErr:     model.ErrNotMessageParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := &messageMocks{
				messageRepo: &mockMessageRepository{
					getByIDFn: func(ctx context.Context, id int64) (*model.Message, error) {
						return tt.message, nil
					},
				},
			}
			svc := newMessageService(mocks, true)

			err := svc.Delete(context.Background(), tt.requesterID, 10)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantInvalidate && len(mocks.unread.invalidateCalls) != 1 {
				t.Errorf("invalidate calls = %d, want 1", len(mocks.unread.invalidateCalls))
			}
			if !tt.wantInvalidate && len(mocks.unread.invalidateCalls) != 0 {
				t.Errorf("invalidate calls = %d, want 0", len(mocks.unread.invalidateCalls))
			}
		})
	}
}
