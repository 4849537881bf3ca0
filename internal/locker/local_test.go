package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_BlocksSameKey(t *testing.T) {
	l := NewLocalLocker()

	release, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrLockTimeout)

	// Другой ключ не блокируется
	releaseB, err := l.Acquire(context.Background(), "b")
	require.NoError(t, err)
	releaseB()

	release()
	release() // повторный вызов безопасен

	release, err = l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	release()

	assert.Empty(t, l.locks)
}

func TestLocalLocker_Counter(t *testing.T) {
	l := NewLocalLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "counter")
			if err != nil {
				return
			}
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
