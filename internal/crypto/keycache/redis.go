package keycache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTTL bounds how long a rotated-away key can keep verifying on other
// replicas before their caches expire.
const defaultTTL = 5 * time.Minute

// Redis caches user public keys in Redis so all replicas share lookups.
// Cache failures degrade to store reads; they are logged, never surfaced.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a Redis-backed key cache.
func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: defaultTTL, logger: logger}
}

func (c *Redis) key(userID string) string {
	return "userkey:" + userID
}

func (c *Redis) Get(ctx context.Context, userID string) (string, bool) {
	encoded, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "key cache read failed", "user_id", userID, "error", err)
		}
		return "", false
	}
	return encoded, true
}

func (c *Redis) Set(ctx context.Context, userID, encoded string) {
	if err := c.client.Set(ctx, c.key(userID), encoded, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "key cache write failed", "user_id", userID, "error", err)
	}
}

func (c *Redis) Delete(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "key cache delete failed", "user_id", userID, "error", err)
	}
}
