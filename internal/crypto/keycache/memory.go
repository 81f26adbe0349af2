// Package keycache provides user public-key caches for the cryptographic
// core: an in-process map for single-node deployments and tests, and a
// Redis-backed cache shared across replicas.
package keycache

import (
	"context"
	"sync"
)

// Memory is a process-local key cache.
type Memory struct {
	mu   sync.RWMutex
	keys map[string]string
}

func NewMemory() *Memory {
	return &Memory{keys: make(map[string]string)}
}

func (c *Memory) Get(_ context.Context, userID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	encoded, ok := c.keys[userID]
	return encoded, ok
}

func (c *Memory) Set(_ context.Context, userID, encoded string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[userID] = encoded
}

func (c *Memory) Delete(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, userID)
}
