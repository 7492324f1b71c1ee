package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCacheRepository holds JWTs revoked by logout until they would
// have expired anyway.
type SessionCacheRepository interface {
	BlockToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlocked(ctx context.Context, token string) (bool, error)
}

type sessionCacheRepository struct {
	rdb *redis.Client
}

func NewSessionCacheRepository(rdb *redis.Client) SessionCacheRepository {
	return &sessionCacheRepository{rdb: rdb}
}

func (r *sessionCacheRepository) blockedKey(token string) string {
	return fmt.Sprintf("session:blocked:%s", token)
}

func (r *sessionCacheRepository) BlockToken(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := r.rdb.Set(ctx, r.blockedKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to block token: %w", err)
	}
	return nil
}

func (r *sessionCacheRepository) IsTokenBlocked(ctx context.Context, token string) (bool, error) {
	_, err := r.rdb.Get(ctx, r.blockedKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}
