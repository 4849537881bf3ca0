package locker

import (
	"context"
	"time"

	"artwala_backend/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Удаляем ключ, только если он все еще принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker - распределенная блокировка на SETNX с TTL
type RedisLocker struct {
	Client       *redis.Client
	TTL          time.Duration
	Wait         time.Duration
	PollInterval time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		Client:       client,
		TTL:          ttl,
		Wait:         wait,
		PollInterval: 25 * time.Millisecond,
	}
}

// TryLock - одна попытка взять блокировку
func (l *RedisLocker) TryLock(ctx context.Context, key, owner string) (bool, error) {
	return l.Client.SetNX(ctx, key, owner, l.TTL).Result()
}

// Unlock снимает блокировку, если владелец совпадает
func (l *RedisLocker) Unlock(ctx context.Context, key, owner string) error {
	return releaseScript.Run(ctx, l.Client, []string{key}, owner).Err()
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	owner := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.Wait)
	defer cancel()

	ticker := time.NewTicker(l.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.TryLock(waitCtx, key, owner)
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}

	release := func() {
		// Контекст запроса может быть уже отменен
		if err := l.Unlock(context.Background(), key, owner); err != nil {
			logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}
	return release, nil
}
