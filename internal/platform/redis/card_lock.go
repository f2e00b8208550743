// Package redis provides a distributed per-card lock so that several server
// instances never review the same card concurrently.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/config"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// PrefixLock namespaces lock keys.
const PrefixLock = "notea:lock:card:"

const (
	defaultRetryInterval = 25 * time.Millisecond
	dialTimeout          = 5 * time.Second
)

var (
	// ErrLockNotAcquired is returned when the lock is still held by another
	// reviewer when the context ends.
	ErrLockNotAcquired = errors.New("card lock: not acquired")

	// ErrConnection is returned when Redis cannot be reached.
	ErrConnection = errors.New("card lock: connection failed")
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock that someone else re-acquired is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// CardLocker takes per-card locks with SET NX PX.
type CardLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewClient connects to the Redis server described by cfg.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return client, nil
}

// NewCardLocker returns a locker whose locks expire after ttl if never
// released.
func NewCardLocker(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CardLocker {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		logger:        logger.With(slog.String("component", "card_locker")),
	}
}

// LockKey returns the Redis key guarding cardID.
func LockKey(cardID uuid.UUID) string {
	return PrefixLock + cardID.String()
}

// Lock blocks until the card's lock is held or ctx ends. The returned
// function releases it.
func (l *CardLocker) Lock(ctx context.Context, cardID uuid.UUID) (func(), error) {
	log := logger.FromContextOrDefault(ctx, l.logger)
	key := LockKey(cardID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrLockNotAcquired, ctx.Err())
			}
			log.Error("failed to acquire card lock",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return nil, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		if ok {
			return l.unlocker(log, key, token), nil
		}

		select {
		case <-ctx.Done():
			log.Warn("card lock wait abandoned", slog.String("card_id", cardID.String()))
			return nil, fmt.Errorf("%w: %w", ErrLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *CardLocker) unlocker(log *slog.Logger, key, token string) func() {
	return func() {
		// The caller's context may already be done; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		switch {
		case err != nil:
			log.Error("failed to release card lock",
				slog.String("error", err.Error()),
				slog.String("key", key))
		case n == 0:
			log.Warn("card lock expired before release", slog.String("key", key))
		}
	}
}
