package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis поднимает miniredis - Redis в памяти без внешнего сервера
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	l := NewRedisLocker(client, time.Second, 100*time.Millisecond)
	key := CommissionKey("c-1")

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	// Второй захват ждет и падает по таймауту
	_, err = l.Acquire(context.Background(), key)
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()
	assert.False(t, mr.Exists(key))

	release, err = l.Acquire(context.Background(), key)
	require.NoError(t, err)
	release()
}

func TestRedisLocker_UnlockOnlyOwnKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	l := NewRedisLocker(client, time.Second, 50*time.Millisecond)
	ctx := context.Background()

	ok, err := l.TryLock(ctx, "k", "owner-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Unlock(ctx, "k", "owner-2"))
	val, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "owner-1", val)

	require.NoError(t, l.Unlock(ctx, "k", "owner-1"))
	_, err = client.Get(ctx, "k").Result()
	assert.Equal(t, redis.Nil, err)
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	l := NewRedisLocker(client, time.Second, 50*time.Millisecond)
	key := CommissionKey("c-ttl")

	_, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	release()
}

func TestRedisLocker_SerializesConcurrentHolders(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	l := NewRedisLocker(client, 5*time.Second, 5*time.Second)
	key := CommissionKey("c-race")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), key)
			if err != nil {
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "lock must never be held by two goroutines at once")
}
