package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from Redis when possible. On a miss it calls fetch, which
// must populate dest, and stores the result with ttl. A failing cache never
// fails the read; fetch errors are returned unchanged and nothing is cached.
func Aside(ctx context.Context, name, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues(name, "error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key), slog.String("error", err.Error()))
	case found:
		observability.CacheLookups.WithLabelValues(name, "hit").Inc()
		return nil
	default:
		observability.CacheLookups.WithLabelValues(name, "miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}
