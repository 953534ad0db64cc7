package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fishing-backend/internal/models"
)

// EventPublisher delivers fisher-scoped events to connected clients.
// Delivery is best effort; failures never fail the operation that
// produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, fisherID uuid.UUID, msg models.WSMessage)
}

// EventsChannel is the Redis channel carrying one fisher's events.
func EventsChannel(fisherID uuid.UUID) string {
	return fmt.Sprintf("fisher_updates:%s", fisherID.String())
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, fisherID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Event %s for fisher %s not encoded: %v", msg.Type, fisherID, err)
		return
	}
	if err := p.client.Publish(ctx, EventsChannel(fisherID), string(data)).Err(); err != nil {
		log.Printf("Event %s for fisher %s not published: %v", msg.Type, fisherID, err)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, models.WSMessage) {}
