package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedPrefix = "session:revoked:"

// SessionRepositoryRedis keeps revoked token ids until their natural expiry.
type SessionRepositoryRedis struct {
	Client *redis.Client
}

func NewSessionRepositoryRedis(client *redis.Client) *SessionRepositoryRedis {
	return &SessionRepositoryRedis{
		Client: client,
	}
}

func (r *SessionRepositoryRedis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.Client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (r *SessionRepositoryRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
