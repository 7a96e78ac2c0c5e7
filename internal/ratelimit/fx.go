package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/revalya/revalya/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// provideRedis returns nil when rate limiting is disabled; downstream
// consumers treat a nil bucket as pass-through.
func provideRedis(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RedisAddr == "" {
		log.Named("ratelimit").Info("rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

var Module = fx.Module("rate.limit",
	fx.Provide(provideRedis),
	fx.Provide(NewTokenBucket),
	fx.Provide(NewWebhookLimiter),
)
