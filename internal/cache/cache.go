package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

const (
	KeyCartByUserID   = "carts:user:%d"
	KeyOrdersByUserID = "orders:user:%d"
	KeyOrderByID      = "orders:%d"
)

func CartKey(userID int64) string   { return fmt.Sprintf(KeyCartByUserID, userID) }
func OrdersKey(userID int64) string { return fmt.Sprintf(KeyOrdersByUserID, userID) }
func OrderKey(orderID int64) string { return fmt.Sprintf(KeyOrderByID, orderID) }

// Cache stores JSON encoded views. Callers treat every failure as a miss, the
// database stays the source of truth.
//
// Every key has a generation that Delete bumps. A fill reads the generation
// before loading and stores through SetAt, so a value loaded before an
// invalidation is never written back after it.
type Cache interface {
	Get(c context.Context, key string, dst any) (bool, error)
	Generation(c context.Context, key string) (int64, error)
	// SetAt stores value only while the generation of key still equals gen and
	// reports whether it did.
	SetAt(c context.Context, key string, gen int64, value any) (bool, error)
	Delete(c context.Context, keys ...string) error
	Publish(c context.Context, channel string, message any) error
	// Load collapses concurrent calls for the same key into one fn invocation.
	// A caller stops waiting when c is done, fn keeps running for the others.
	Load(c context.Context, key string, fn func() (any, error)) (any, error)
}

func generationKey(key string) string { return key + ":gen" }

func waitShared(c context.Context, group *singleflight.Group, key string, fn func() (any, error)) (any, error) {
	select {
	case res := <-group.DoChan(key, fn):
		return res.Val, res.Err
	case <-c.Done():
		return nil, c.Err()
	}
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

var _ Cache = (*Redis)(nil)

func (r *Redis) Get(c context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed getting cache key=%s with error=%w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed unmarshaling cache key=%s with error=%w", key, err)
	}
	return true, nil
}

func (r *Redis) Generation(c context.Context, key string) (int64, error) {
	gen, err := r.client.Get(c, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed getting generation of cache key=%s with error=%w", key, err)
	}
	return gen, nil
}

// SetAt watches the generation key, a concurrent Delete aborts the EXEC.
func (r *Redis) SetAt(c context.Context, key string, gen int64, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed marshaling cache key=%s with error=%w", key, err)
	}

	stored := false
	err = r.client.Watch(c, func(tx *redis.Tx) error {
		current, err := tx.Get(c, generationKey(key)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, key, raw, r.ttl)
			return nil
		})
		stored = err == nil
		return err
	}, generationKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed setting cache key=%s with error=%w", key, err)
	}
	return stored, nil
}

// Delete bumps the generation of every key and drops the values in one
// MULTI. Generation keys outlive the values they guard.
func (r *Redis) Delete(c context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(c, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(c, generationKey(k))
			if r.ttl > 0 {
				pipe.Expire(c, generationKey(k), 2*r.ttl)
			}
		}
		pipe.Del(c, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed deleting cache keys=%v with error=%w", keys, err)
	}
	return nil
}

func (r *Redis) Publish(c context.Context, channel string, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed marshaling message for channel=%s with error=%w", channel, err)
	}
	if err := r.client.Publish(c, channel, raw).Err(); err != nil {
		return fmt.Errorf("failed publishing to channel=%s with error=%w", channel, err)
	}
	return nil
}

func (r *Redis) Load(c context.Context, key string, fn func() (any, error)) (any, error) {
	return waitShared(c, &r.group, key, fn)
}

// Noop never hits and drops writes and events.
type Noop struct{}

var _ Cache = Noop{}

func (Noop) Get(context.Context, string, any) (bool, error)                        { return false, nil }
func (Noop) Generation(context.Context, string) (int64, error)                     { return 0, nil }
func (Noop) SetAt(context.Context, string, int64, any) (bool, error)               { return false, nil }
func (Noop) Delete(context.Context, ...string) error                               { return nil }
func (Noop) Publish(context.Context, string, any) error                            { return nil }
func (Noop) Load(_ context.Context, _ string, fn func() (any, error)) (any, error) { return fn() }

// Aside reads key from cache and falls back to load on a miss, storing the
// loaded value unless key was invalidated meanwhile. Cache failures are logged
// and never returned.
func Aside[T any](
	c context.Context,
	cache Cache,
	key string,
	load func(c context.Context) (T, error),
) (T, error) {
	c, span := otel.Tracer.Start(c, "cache Aside")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cache Aside").
		Str(log.KeyCacheKey, key).
		Logger()

	var cached T
	hit, err := cache.Get(c, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Msg(err.Error())
	}
	if hit {
		span.AddEvent("cache hit")
		logger.Trace().Msg("cache hit")
		return cached, nil
	}
	logger.Trace().Msg("cache miss")

	gen, genErr := cache.Generation(c, key)
	if genErr != nil {
		logger.Warn().Err(genErr).Msg(genErr.Error())
	}

	// The shared fill must not die with the first caller.
	fc := context.WithoutCancel(c)
	v, err := cache.Load(c, fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		loaded, err := load(fc)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			return loaded, nil
		}
		stored, err := cache.SetAt(fc, key, gen, loaded)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg(err.Error())
		case !stored:
			logger.Debug().Int64("generation", gen).Msg("key invalidated during load, not storing")
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate deletes keys and only logs a failure.
func Invalidate(c context.Context, cache Cache, keys ...string) {
	if err := cache.Delete(c, keys...); err != nil {
		logger := zerolog.Ctx(c).With().Str(log.KeyTag, "cache Invalidate").Logger()
		logger.Warn().Err(err).Msg(err.Error())
	}
}

func (r *Redis) Subscribe(c context.Context, channels ...string) *redis.PubSub {
	return r.client.Subscribe(c, channels...)
}
