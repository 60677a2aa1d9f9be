package model

import (
	"errors"
	"time"
)

// Message is a private message between two users. Lifecycle is Sent -> Read
// (receiver action, one way) or a hard delete by either participant.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in messages table)
	Sender *UserSummary `json:"sender,omitempty"`
}

// SendMessageRequest is the request body for sending a message.
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

// Conversation is one entry of the conversation list: the partner, the most
// recent message exchanged with them, and how many of their messages the
// viewer has not read yet.
type Conversation struct {
	Partner     UserSummary `json:"user"`
	LastMessage Message     `json:"last_message"`
	IsFromMe    bool        `json:"is_from_me"`
	UnreadCount int         `json:"unread_count"`
}

// MessageListResponse is a paginated conversation history.
type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
	HasNext  bool      `json:"has_next"`
}

// MaxMessageLength caps message content.
const MaxMessageLength = 2000

var (
	ErrMessageNotFound       = errors.New("message not found")
	ErrSelfMessage           = errors.New("cannot send a message to yourself")
	ErrMessageEmpty          = errors.New("message content is required")
	ErrMessageTooLong        = errors.New("message content too long")
	ErrNotMutualFollowers    = errors.New("messaging requires a mutual follow")
	ErrNotMessageRecipient   = errors.New("only the recipient may mark a message as read")
	ErrNotMessageParticipant = errors.New("not a participant of this message")
)
