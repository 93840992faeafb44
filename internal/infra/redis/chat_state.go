package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-order-notifier/internal/domain/ports/repository"
)

var _ repository.ChatStateRepository = (*ChatStateRepo)(nil)

// ChatStateRepo stores the armed-estimate flag per chat with a TTL so an
// abandoned prompt expires on its own instead of leaking.
type ChatStateRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewChatStateRepo(client *redClient, ttl time.Duration) *ChatStateRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ChatStateRepo{client: client, ttl: ttl}
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("chat_state:estimate:%d", chatID)
}

func (s *ChatStateRepo) ArmEstimate(ctx context.Context, chatID int64) error {
	return s.client.Set(ctx, stateKey(chatID), "1", s.ttl)
}

func (s *ChatStateRepo) EstimateArmed(ctx context.Context, chatID int64) (bool, error) {
	_, err := s.client.Get(ctx, stateKey(chatID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ChatStateRepo) Disarm(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, stateKey(chatID))
}
