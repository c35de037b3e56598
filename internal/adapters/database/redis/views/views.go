package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Storage counts public views per card.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Increment(ctx context.Context, cardID string) (int64, error) {
	return s.redis.Incr(ctx, key(cardID)).Result()
}

func (s *Storage) Get(ctx context.Context, cardID string) (int64, error) {
	count, err := s.redis.Get(ctx, key(cardID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

func key(cardID string) string {
	return fmt.Sprintf("views:%s", cardID)
}
