package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tenantdomain "github.com/revalya/revalya/internal/tenant/domain"
	"github.com/revalya/revalya/internal/tenantctx"
)

const (
	contextSessionKey = "session"
	bearerPrefix      = "Bearer "
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}

// AuthRequired resolves the bearer token to a live session and injects
// the session's tenant, user, and role into the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.sessionSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), session.TenantID)
		ctx = tenantctx.WithUserID(ctx, session.UserID)
		ctx = tenantctx.WithRole(ctx, session.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextSessionKey, session)
		c.Next()
	}
}

// TenantPathGuard rejects requests whose :tenant_id path segment does not
// match the session tenant. A token for one tenant never acts on another.
func TenantPathGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("tenant_id")
		if raw == "" {
			c.Next()
			return
		}

		pathTenant, err := uuid.Parse(raw)
		if err != nil {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "tenant id must be a uuid"))
			return
		}

		sessionTenant, ok := tenantctx.TenantIDFromContext(c.Request.Context())
		if !ok || sessionTenant != pathTenant {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireRole gates a route to sessions holding one of the given roles.
// Owners pass every role check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := tenantctx.RoleFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if role == tenantdomain.RoleOwner {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}
