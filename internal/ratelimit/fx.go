package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
)

// Limiter answers whether one more request is allowed for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LoginLimiter throttles credential attempts per client IP.
type LoginLimiter interface{ Limiter }

// APILimiter throttles the public API per client IP.
type APILimiter interface{ Limiter }

const (
	loginLimit  = 5
	apiLimit    = 100
	limitWindow = 15 * time.Minute
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLoginLimiter),
	fx.Provide(NewAPILimiter),
)

// NewRedisClient connects to redis when an address is configured; a nil
// client selects the in-process fallback limiters.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, using in-process rate limiting")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	return client
}

func NewLoginLimiter(client *redis.Client, clk clock.Clock) LoginLimiter {
	if client != nil {
		return NewTokenBucket(client, float64(loginLimit)/limitWindow.Seconds(), loginLimit)
	}
	return NewFixedWindow(loginLimit, limitWindow, clk)
}

func NewAPILimiter(client *redis.Client, clk clock.Clock) APILimiter {
	if client != nil {
		return NewTokenBucket(client, float64(apiLimit)/limitWindow.Seconds(), apiLimit)
	}
	return NewFixedWindow(apiLimit, limitWindow, clk)
}
