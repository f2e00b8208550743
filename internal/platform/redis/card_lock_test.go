package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) *CardLocker {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set - skipping redis integration test")
	}

	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewCardLocker(client, ttl, nil)
}

func TestLockKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "notea:lock:card:6ba7b810-9dad-11d1-80b4-00c04fd430c8", LockKey(id))
}

func TestNewClient_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorIs(t, err, ErrConnection)
}

func TestCardLocker_MutualExclusion(t *testing.T) {
	t.Parallel()

	locker := newTestLocker(t, 5*time.Second)
	cardID := uuid.New()

	var (
		inside   atomic.Int32
		violated atomic.Bool
		wg       sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			unlock, err := locker.Lock(ctx, cardID)
			if !assert.NoError(t, err) {
				return
			}
			if inside.Add(1) > 1 {
				violated.Store(true)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, violated.Load())
}

func TestCardLocker_WaitTimesOut(t *testing.T) {
	t.Parallel()

	locker := newTestLocker(t, 5*time.Second)
	cardID := uuid.New()

	unlock, err := locker.Lock(context.Background(), cardID)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, cardID)
	assert.ErrorIs(t, err, ErrLockNotAcquired)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCardLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	t.Parallel()

	locker := newTestLocker(t, 300*time.Millisecond)
	cardID := uuid.New()

	first, err := locker.Lock(context.Background(), cardID)
	require.NoError(t, err)
	time.Sleep(400 * time.Millisecond)

	second, err := locker.Lock(context.Background(), cardID)
	require.NoError(t, err)

	// Releasing the expired lock must not free the second holder's lock.
	first()
	token, err := locker.client.Get(context.Background(), LockKey(cardID)).Result()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	second()
	exists, err := locker.client.Exists(context.Background(), LockKey(cardID)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
