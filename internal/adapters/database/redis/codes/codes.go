package codes

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
)

// Storage maps short share codes to card IDs.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Get(ctx context.Context, code string) (string, error) {
	cardID, err := s.redis.Get(ctx, code).Result()
	if errors.Is(err, redis.Nil) {
		return "", errorz.ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return cardID, nil
}

func (s *Storage) Set(ctx context.Context, code, cardID string, expiration time.Duration) error {
	return s.redis.Set(ctx, code, cardID, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, code string) error {
	return s.redis.Del(ctx, code).Err()
}
