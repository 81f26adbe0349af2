package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes chain transitions per intent hash. Acquire does not
// wait: the loser of a race is rejected immediately so the caller can
// surface ConcurrentModification.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool)
}

// KeyedLock is the in-process Locker for single-replica deployments.
type KeyedLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[string]struct{})}
}

func (l *KeyedLock) Acquire(_ context.Context, key string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return nil, false
	}
	l.held[key] = struct{}{}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, true
}

// lockTTL caps how long a crashed replica can hold a chain lock.
const lockTTL = 30 * time.Second

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is the distributed Locker for multi-replica deployments,
// a SET NX advisory lock with a liveness TTL.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), bool) {
	token := uuid.NewString()
	lockKey := "chainlock:" + key
	ok, err := l.client.SetNX(ctx, lockKey, token, lockTTL).Result()
	if err != nil || !ok {
		return nil, false
	}
	return func() {
		// Best effort. An unreleased lock expires with the TTL.
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{lockKey}, token).Err()
	}, true
}
