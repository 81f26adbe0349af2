//go:build integration

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/mandate/service"
	"paychain/pkg/testutil/containers"
)

func TestRedisLockMutualExclusion(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	lock := service.NewRedisLock(rc.Client)

	release, ok := lock.Acquire(ctx, "hash-1")
	require.True(t, ok)

	_, ok = lock.Acquire(ctx, "hash-1")
	assert.False(t, ok, "second holder must be rejected while the lock is held")

	// A different intent hash is an independent lock.
	otherRelease, ok := lock.Acquire(ctx, "hash-2")
	require.True(t, ok)
	otherRelease()

	release()

	release, ok = lock.Acquire(ctx, "hash-1")
	assert.True(t, ok, "released lock must be acquirable again")
	release()
}

func TestRedisLockReleaseIsScoped(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	first := service.NewRedisLock(rc.Client)
	second := service.NewRedisLock(rc.Client)

	release, ok := first.Acquire(ctx, "hash-1")
	require.True(t, ok)
	release()

	// After the first holder releases, another instance can take the lock
	// and a stale double release from the first must not free it.
	secondRelease, ok := second.Acquire(ctx, "hash-1")
	require.True(t, ok)
	release()

	_, ok = first.Acquire(ctx, "hash-1")
	assert.False(t, ok, "stale release must not unlock another holder")
	secondRelease()
}
