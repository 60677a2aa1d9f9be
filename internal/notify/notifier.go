package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types pushed over the live channel.
const (
	EventNewMessage = "new_message"
)

// Event is the payload published to a connected client's channel.
type Event struct {
	ID        string      `json:"id"`   // unique event id
	Type      string      `json:"type"` // EventNewMessage, ...
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"` // unix seconds
}

// NewEvent builds an event with a fresh id and current timestamp.
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
}

// Publisher delivers live events to a subscriber's channel. Delivery is
// at-most-once: if nobody is subscribed the event is simply dropped, and the
// durable record remains readable on the next fetch. Callers must never fail
// their primary operation on a publish error.
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// UserChannel is the per-user live channel key.
func UserChannel(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// RedisPublisher implements Publisher over Redis PUB/SUB.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher backed by Redis PUB/SUB.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Notifier] Publish FAILED: channel=%s type=%s err=%v", channel, event.Type, err)
		return fmt.Errorf("serialize event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, channel, data).Result()
	if err != nil {
		log.Printf("[Notifier] Publish FAILED: channel=%s type=%s err=%v", channel, event.Type, err)
		return fmt.Errorf("publish event: %w", err)
	}

	log.Printf("[Notifier] Publish OK: channel=%s type=%s id=%s receivers=%d",
		channel, event.Type, event.ID, receivers)
	return nil
}
