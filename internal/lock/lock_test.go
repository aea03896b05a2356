package lock

import (
	"bytes"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema/engine/pkg/logger"
)

var logs bytes.Buffer

func TestMain(m *testing.M) {
	if _, err := logger.InitWithWriter("info", "json", &logs); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func exercise(t *testing.T, l Locker) {
	t.Helper()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "project-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocal_Exclusive(t *testing.T) {
	exercise(t, NewLocal())
}

func TestLocal_KeysAreIndependent(t *testing.T) {
	l := NewLocal()
	unlockA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // idempotent
	l.mu.Lock()
	assert.Empty(t, l.locks)
	l.mu.Unlock()
}

func TestRedis_Exclusive(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exercise(t, NewRedis(client, 5*time.Second))
}

func TestRedis_ReleaseKeepsForeignToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedis(client, 5*time.Second)
	unlock, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)

	// Simulate expiry and takeover by another holder.
	require.NoError(t, mr.Set("schedule:lock:p", "someone-else"))
	unlock()

	v, err := mr.Get("schedule:lock:p")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestRedis_ContextCancelled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedis(client, 5*time.Second)
	unlock, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedis_ReleaseFailureIsLogged(t *testing.T) {
	logs.Reset()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	l := NewRedis(client, 5*time.Second)
	unlock, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)

	mr.Close()
	unlock()

	out := logs.String()
	assert.Contains(t, out, `"message":"lock release failed, held until ttl"`)
	assert.Contains(t, out, `"key":"p"`)
	assert.Contains(t, out, `"level":"warn"`)
}
