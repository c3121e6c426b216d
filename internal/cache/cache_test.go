package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type view struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type failingGet struct {
	*Memory
	err error
}

func (f failingGet) Get(context.Context, string, any) (bool, error) { return false, f.err }

func TestAside(t *testing.T) {
	c := context.Background()

	t.Run("miss loads and stores", func(t *testing.T) {
		cache := NewMemory()
		loads := 0
		load := func(context.Context) (view, error) {
			loads++
			return view{ID: 1, Label: "cart"}, nil
		}

		got, err := Aside(c, cache, CartKey(1), load)
		require.NoError(t, err)
		assert.Equal(t, view{ID: 1, Label: "cart"}, got)

		got, err = Aside(c, cache, CartKey(1), load)
		require.NoError(t, err)
		assert.Equal(t, view{ID: 1, Label: "cart"}, got)
		assert.Equal(t, 1, loads)
	})

	t.Run("load error is returned and nothing is stored", func(t *testing.T) {
		cache := NewMemory()
		boom := errors.New("boom")

		_, err := Aside(c, cache, CartKey(2), func(context.Context) (view, error) {
			return view{}, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, cache.Len())
	})

	t.Run("cache failure falls back to load", func(t *testing.T) {
		cache := failingGet{Memory: NewMemory(), err: errors.New("connection refused")}

		got, err := Aside(c, cache, CartKey(3), func(context.Context) (view, error) {
			return view{ID: 3}, nil
		})
		require.NoError(t, err)
		assert.EqualValues(t, 3, got.ID)
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		cache := NewMemory()
		_, err := Aside(c, cache, OrdersKey(4), func(context.Context) ([]view, error) {
			return []view{{ID: 1}}, nil
		})
		require.NoError(t, err)

		Invalidate(c, cache, OrdersKey(4))

		got, err := Aside(c, cache, OrdersKey(4), func(context.Context) ([]view, error) {
			return []view{{ID: 1}, {ID: 2}}, nil
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("value loaded before an invalidation is not stored", func(t *testing.T) {
		cache := NewMemory()

		got, err := Aside(c, cache, CartKey(6), func(c context.Context) (view, error) {
			Invalidate(c, cache, CartKey(6))
			return view{ID: 6, Label: "stale"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "stale", got.Label)
		assert.Zero(t, cache.Len())

		got, err = Aside(c, cache, CartKey(6), func(context.Context) (view, error) {
			return view{ID: 6, Label: "fresh"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.Label)

		var cached view
		hit, err := cache.Get(c, CartKey(6), &cached)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "fresh", cached.Label)
	})

	t.Run("noop always loads", func(t *testing.T) {
		loads := 0
		for range 2 {
			_, err := Aside(c, Noop{}, OrderKey(5), func(context.Context) (view, error) {
				loads++
				return view{ID: 5}, nil
			})
			require.NoError(t, err)
		}
		assert.Equal(t, 2, loads)
	})
}

func TestAsideCollapsesConcurrentLoads(t *testing.T) {
	c := context.Background()
	cache := NewMemory()
	var loads atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Aside(c, cache, CartKey(9), func(context.Context) (view, error) {
				loads.Add(1)
				<-release
				return view{ID: 9}, nil
			})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, loads.Load())
}

func TestAsideCancelledCallerDoesNotFailOthers(t *testing.T) {
	cache := NewMemory()
	started := make(chan struct{})
	release := make(chan struct{})
	var loads atomic.Int32
	var loadErr atomic.Value
	load := func(c context.Context) (view, error) {
		if loads.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := c.Err(); err != nil {
			loadErr.Store(err)
		}
		return view{ID: 10}, nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Aside(first, cache, CartKey(10), load)
		firstErr <- err
	}()
	<-started

	second := make(chan view, 1)
	go func() {
		got, err := Aside(context.Background(), cache, CartKey(10), load)
		assert.NoError(t, err)
		second <- got
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	select {
	case got := <-second:
		assert.EqualValues(t, 10, got.ID)
	case <-time.After(time.Second):
		t.Fatal("collapsed caller did not receive the shared load")
	}
	assert.EqualValues(t, 1, loads.Load())
	assert.Nil(t, loadErr.Load(), "shared load saw the first caller's cancellation")
}

func TestRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	connStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed parsing redis url with error: %s", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	cache := NewRedis(client, time.Minute)

	t.Run("get set delete", func(t *testing.T) {
		var got view
		hit, err := cache.Get(c, CartKey(1), &got)
		require.NoError(t, err)
		assert.False(t, hit)

		gen, err := cache.Generation(c, CartKey(1))
		require.NoError(t, err)
		stored, err := cache.SetAt(c, CartKey(1), gen, view{ID: 1, Label: "cart"})
		require.NoError(t, err)
		assert.True(t, stored)
		hit, err = cache.Get(c, CartKey(1), &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, view{ID: 1, Label: "cart"}, got)

		ttl, err := client.TTL(c, CartKey(1)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		require.NoError(t, cache.Delete(c, CartKey(1)))
		hit, err = cache.Get(c, CartKey(1), &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("set with an outdated generation is skipped", func(t *testing.T) {
		gen, err := cache.Generation(c, CartKey(2))
		require.NoError(t, err)

		require.NoError(t, cache.Delete(c, CartKey(2)))

		stored, err := cache.SetAt(c, CartKey(2), gen, view{ID: 2, Label: "stale"})
		require.NoError(t, err)
		assert.False(t, stored)

		var got view
		hit, err := cache.Get(c, CartKey(2), &got)
		require.NoError(t, err)
		assert.False(t, hit)

		current, err := cache.Generation(c, CartKey(2))
		require.NoError(t, err)
		assert.Equal(t, gen+1, current)
		ttl, err := client.TTL(c, generationKey(CartKey(2))).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Minute)
	})

	t.Run("publish reaches subscribers", func(t *testing.T) {
		sub := cache.Subscribe(c, "order.created")
		t.Cleanup(func() { sub.Close() })
		_, err := sub.Receive(c)
		require.NoError(t, err)

		require.NoError(t, cache.Publish(c, "order.created", view{ID: 7}))

		select {
		case msg := <-sub.Channel():
			var got view
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
			assert.EqualValues(t, 7, got.ID)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for published message")
		}
	})
}
