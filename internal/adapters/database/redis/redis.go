package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tapfolio/tapfolio/internal/adapters/database/redis/codes"
	"github.com/tapfolio/tapfolio/internal/adapters/database/redis/views"
)

type Client struct {
	Codes *codes.Storage
	Views *views.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	codeStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := codeStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping codes storage: %w", err)
	}

	viewStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := viewStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping views storage: %w", err)
	}

	return &Client{
		Codes: codes.NewStorage(codeStorage),
		Views: views.NewStorage(viewStorage),
	}, nil
}
