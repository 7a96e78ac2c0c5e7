package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/gateway"
	"github.com/revalya/revalya/internal/observability/metrics"
	tenantdomain "github.com/revalya/revalya/internal/tenant/domain"
)

// handleAsaasWebhook ingests one gateway payment event. The caller is the
// gateway itself: it gets 200 as soon as the event is durably staged,
// even when mirroring onto the charge is delayed.
func (s *Server) handleAsaasWebhook(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "tenant id must be a uuid"))
		return
	}

	tenant, err := s.tenantSvc.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		AbortWithError(c, err)
		return
	}
	if !tenant.Active {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		AbortWithError(c, ErrForbidden)
		return
	}

	if s.webhookLimiter != nil {
		if res := s.webhookLimiter.Allow(c.Request.Context(), tenantID); !res.Allowed {
			retry := int(res.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	secret := s.webhookSecret(c, tenantID)
	if err := gateway.VerifySignature(body, c.GetHeader(gateway.SignatureHeader), secret); err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		AbortWithError(c, ErrUnauthorized)
		return
	}

	payload, err := gateway.ParsePayload(body)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		AbortWithError(c, err)
		return
	}

	event, err := gateway.Normalize(payload, body)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		AbortWithError(c, err)
		return
	}

	result, err := s.reconciliationSvc.ProcessWebhookEvent(c.Request.Context(), tenantID, event)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"payment_id": event.ExternalID,
		"event":      event.Event,
		"created":    result.Created,
		"staging_id": result.StagingID.String(),
	})
}

// webhookSecret prefers the tenant's own integration secret and falls
// back to the platform-level secret. An empty result disables the
// signature check, matching gateways configured without signing.
func (s *Server) webhookSecret(c *gin.Context, tenantID uuid.UUID) string {
	integration, err := s.tenantSvc.ActiveIntegration(c.Request.Context(), tenantID, tenantdomain.IntegrationTypeAsaas)
	if err == nil && integration.WebhookSecret != "" {
		return integration.WebhookSecret
	}
	if err != nil && !errors.Is(err, tenantdomain.ErrIntegrationNotFound) {
		s.log.Warn("failed to load tenant integration for webhook")
	}
	return s.cfg.Gateway.WebhookSecret
}
