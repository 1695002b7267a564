package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// Blocklist stores revoked token ids with a TTL matching the token's
// remaining lifetime.
type Blocklist struct {
	client *redis.Client
}

func NewBlocklist(client *redis.Client) *Blocklist {
	return &Blocklist{client: client}
}

func (b *Blocklist) Block(ctx context.Context, tokenID string, ttl time.Duration) error {
	return b.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (b *Blocklist) IsBlocked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
