package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/config"
	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

// NewRedisClient connects and pings, retrying a few times while Redis starts up.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			slog.Info("connected to redis", "addr", cfg.Addr)
			return rdb, nil
		}

		slog.Warn("redis ping failed", "attempt", i, "max_retries", maxRetries, "error", lastErr)
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis connection failed after %d retries: %w", maxRetries, lastErr)
}

// TokenDenylist stores revoked token ids with a TTL equal to the token's remaining life.
type TokenDenylist struct {
	rdb redis.Cmdable
}

func NewTokenDenylist(rdb redis.Cmdable) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.rdb.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.rdb.Get(ctx, revokedTokenPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("check revoked token: %w", err)
	}
}
