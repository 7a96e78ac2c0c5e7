package ratelimit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/config"
	"go.uber.org/zap"
)

// WebhookLimiter throttles webhook ingress per tenant. With no redis
// configured it admits everything; webhook durability outranks throttling
// when the limiter backend is down.
type WebhookLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

func NewWebhookLimiter(cfg config.Config, bucket *TokenBucket, log *zap.Logger) *WebhookLimiter {
	return &WebhookLimiter{
		bucket: bucket,
		log:    log.Named("ratelimit.webhook"),
		rate:   cfg.RateLimit.WebhookRate,
		burst:  cfg.RateLimit.WebhookBurst,
	}
}

func (l *WebhookLimiter) Allow(ctx context.Context, tenantID uuid.UUID) *Result {
	if l == nil || l.bucket == nil {
		return &Result{Allowed: true}
	}

	key := fmt.Sprintf("ratelimit:webhook:%s", tenantID)
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, admitting request",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return &Result{Allowed: true}
	}
	return res
}
