package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"musicgram/internal/cache"
	"musicgram/internal/model"
	"musicgram/internal/notify"
	"musicgram/internal/repository"
)

const (
	// MessagesDefaultPerPage is the default conversation page size
	MessagesDefaultPerPage = 20

	// MessagesMaxPerPage caps the page size
	MessagesMaxPerPage = 100
)

// MessageService handles private messaging. The message row is the durable
// record; the live notification and the unread counter cache ride along
// best-effort and never fail a send.
type MessageService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
	recorder    *BehaviorRecorder
	publisher   notify.Publisher
	unread      cache.UnreadCache
	gateEnabled bool
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	recorder *BehaviorRecorder,
	publisher notify.Publisher,
	unread cache.UnreadCache,
	gateEnabled bool,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
		userRepo:    userRepo,
		recorder:    recorder,
		publisher:   publisher,
		unread:      unread,
		gateEnabled: gateEnabled,
	}
}

// songSharePayload is the structured message content a client sends when
// sharing a song into a conversation.
type songSharePayload struct {
	Type string `json:"type"`
	Song struct {
		ID int64 `json:"id"`
	} `json:"song"`
}

// Send validates, persists, and then fans out: a share behavior entry when
// the content is a song share, an unread-counter bump, and a live event to
// the receiver's channel. Everything after the insert is best-effort; the
// message is already durable and will surface on the receiver's next poll.
func (s *MessageService) Send(ctx context.Context, senderID int64, req model.SendMessageRequest) (*model.Message, error) {
	if req.ReceiverID == senderID {
		return nil, model.ErrSelfMessage
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrMessageEmpty
	}
	if utf8.RuneCountInString(content) > model.MaxMessageLength {
		return nil, model.ErrMessageTooLong
	}

	exists, err := s.userRepo.Exists(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	if s.gateEnabled {
		mutual, err := s.followRepo.IsMutual(ctx, senderID, req.ReceiverID)
		if err != nil {
			return nil, err
		}
		if !mutual {
			return nil, model.ErrNotMutualFollowers
		}
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Song shares travel as structured content; anything that doesn't parse
	// is just a regular message.
	var share songSharePayload
	if err := json.Unmarshal([]byte(content), &share); err == nil {
		if share.Type == "song_share" && share.Song.ID > 0 {
			s.recorder.LogShare(ctx, senderID, share.Song.ID, req.ReceiverID)
		}
	}

	if err := s.unread.Increment(ctx, req.ReceiverID); err != nil {
		log.Printf("[MessageService] unread bump failed: receiver=%d err=%v", req.ReceiverID, err)
	}

	event := notify.NewEvent(notify.EventNewMessage, message)
	if err := s.publisher.Publish(ctx, notify.UserChannel(req.ReceiverID), event); err != nil {
		log.Printf("[MessageService] live notify failed: message=%d receiver=%d err=%v",
			message.ID, req.ReceiverID, err)
	}

	if summaries, err := s.userRepo.GetSummaries(ctx, []int64{senderID}); err == nil {
		if sender, ok := summaries[senderID]; ok {
			message.Sender = &sender
		}
	}

	log.Printf("[MessageService] User %d sent message %d to user %d", senderID, message.ID, req.ReceiverID)
	return message, nil
}

// ListConversations groups the viewer's messages by partner, keeps the most
// recent message per partner, attaches unread counts, and sorts by that
// message's timestamp descending. Partners whose account is gone are dropped.
func (s *MessageService) ListConversations(ctx context.Context, viewerID int64) ([]model.Conversation, error) {
	heads, err := s.messageRepo.LatestPerPartner(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return []model.Conversation{}, nil
	}

	unreadCounts, err := s.messageRepo.UnreadCountsBySender(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	partnerIDs := make([]int64, len(heads))
	for i, m := range heads {
		partnerIDs[i] = partnerOf(&m, viewerID)
	}
	partners, err := s.userRepo.GetSummaries(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(heads))
	for _, m := range heads {
		partnerID := partnerOf(&m, viewerID)
		partner, ok := partners[partnerID]
		if !ok {
			continue
		}
		conversations = append(conversations, model.Conversation{
			Partner:     partner,
			LastMessage: m,
			IsFromMe:    m.SenderID == viewerID,
			UnreadCount: unreadCounts[partnerID],
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return conversations, nil
}

// GetConversation pages the full history between viewer and partner, newest
// first.
func (s *MessageService) GetConversation(ctx context.Context, viewerID, partnerID int64, page, perPage int) (*model.MessageListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = MessagesDefaultPerPage
	}
	if perPage > MessagesMaxPerPage {
		perPage = MessagesMaxPerPage
	}

	total, err := s.messageRepo.CountBetween(ctx, viewerID, partnerID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListBetween(ctx, viewerID, partnerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &model.MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		HasNext:  page*perPage < total,
	}, nil
}

// MarkRead flips one message to read. Only the receiver may do this.
func (s *MessageService) MarkRead(ctx context.Context, viewerID, messageID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != viewerID {
		return model.ErrNotMessageRecipient
	}

	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		return err
	}

	if err := s.unread.Invalidate(ctx, viewerID); err != nil {
		log.Printf("[MessageService] unread invalidate failed: user=%d err=%v", viewerID, err)
	}
	return nil
}

// MarkConversationRead marks everything the partner sent the viewer.
func (s *MessageService) MarkConversationRead(ctx context.Context, viewerID, partnerID int64) (int64, error) {
	rows, err := s.messageRepo.MarkConversationRead(ctx, viewerID, partnerID)
	if err != nil {
		return 0, err
	}

	if rows > 0 {
		if err := s.unread.Invalidate(ctx, viewerID); err != nil {
			log.Printf("[MessageService] unread invalidate failed: user=%d err=%v", viewerID, err)
		}
	}
	return rows, nil
}

// UnreadCount serves from the cache when warm, otherwise recounts from the
// store and repairs the cache.
func (s *MessageService) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	if count, found, err := s.unread.Get(ctx, viewerID); err == nil && found {
		return int(count), nil
	}

	total, err := s.messageRepo.UnreadTotal(ctx, viewerID)
	if err != nil {
		return 0, err
	}

	if err := s.unread.Set(ctx, viewerID, int64(total)); err != nil {
		log.Printf("[MessageService] unread repair failed: user=%d err=%v", viewerID, err)
	}
	return total, nil
}

// Delete hard-deletes a message. Either participant may do it.
func (s *MessageService) Delete(ctx context.Context, requesterID, messageID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != requesterID && message.ReceiverID != requesterID {
		return model.ErrNotMessageParticipant
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	// An unread message just vanished from the receiver's count.
	if !message.IsRead {
		if err := s.unread.Invalidate(ctx, message.ReceiverID); err != nil {
			log.Printf("[MessageService] unread invalidate failed: user=%d err=%v", message.ReceiverID, err)
		}
	}

	log.Printf("[MessageService] User %d deleted message %d", requesterID, messageID)
	return nil
}

func partnerOf(m *model.Message, viewerID int64) int64 {
	if m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}
