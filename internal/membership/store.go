package membership

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

const keyPrefix = "supporter:"

// Store is the supporter allow-list consulted by the access and proxy
// paths and maintained by the membership webhook.
type Store interface {
	Activate(ctx context.Context, email string) error
	Deactivate(ctx context.Context, email string) error
	IsActive(ctx context.Context, email string) (bool, error)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Redis-backed implementation. Presence of the
// supporter:{email} key is the whole record; the value is a sentinel.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Activate(ctx context.Context, email string) error {
	if err := s.client.Set(ctx, key(email), "active", 0).Err(); err != nil {
		return apperrors.NewStoreError(err)
	}
	return nil
}

func (s *redisStore) Deactivate(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email)).Err(); err != nil {
		return apperrors.NewStoreError(err)
	}
	return nil
}

func (s *redisStore) IsActive(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, key(email)).Result()
	if err != nil {
		return false, apperrors.NewStoreError(err)
	}
	return n > 0, nil
}

func key(email string) string {
	return keyPrefix + NormalizeEmail(email)
}

// NormalizeEmail trims and lowercases an email for use as a store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
