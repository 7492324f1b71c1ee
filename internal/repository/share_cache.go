package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ShareCacheRepository is a look-aside cache mapping share tokens to
// file record ids. Entries carry no TTL: an expired share must still
// resolve (expiration is advisory), so tokens are removed only when a
// file is deleted or re-shared.
type ShareCacheRepository interface {
	SaveToken(ctx context.Context, token, fileID string) error
	GetFileID(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

type shareCacheRepository struct {
	rdb *redis.Client
}

func NewShareCacheRepository(rdb *redis.Client) ShareCacheRepository {
	return &shareCacheRepository{rdb: rdb}
}

func (r *shareCacheRepository) tokenKey(token string) string {
	return fmt.Sprintf("share:%s:file", token)
}

func (r *shareCacheRepository) SaveToken(ctx context.Context, token, fileID string) error {
	if token == "" || fileID == "" {
		return fmt.Errorf("token and fileID cannot be empty")
	}
	if err := r.rdb.Set(ctx, r.tokenKey(token), fileID, 0).Err(); err != nil {
		return fmt.Errorf("failed to cache share token: %w", err)
	}
	return nil
}

func (r *shareCacheRepository) GetFileID(ctx context.Context, token string) (string, error) {
	fileID, err := r.rdb.Get(ctx, r.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up share token: %w", err)
	}
	return fileID, nil
}

func (r *shareCacheRepository) DeleteToken(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, r.tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to drop share token: %w", err)
	}
	return nil
}
