package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/revalya/revalya/internal/audit/domain"
	"github.com/revalya/revalya/internal/tenantctx"
	"github.com/revalya/revalya/pkg/db/pagination"
)

func (s *Server) handleListAuditLogs(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var q pagination.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	pageSize := q.Clamp()

	filter := auditdomain.ListFilter{Limit: pageSize + 1}
	if q.PageToken != "" {
		cursor, err := pagination.DecodeCursor(q.PageToken)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page token is malformed"))
			return
		}
		if cursor.ID != "" {
			before, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page token is malformed"))
				return
			}
			filter.BeforeID = before
		}
	}

	entries, err := s.auditSvc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, info, err := pagination.Trim(entries, pageSize, func(e auditdomain.AuditLog) pagination.Cursor {
		return pagination.Cursor{ID: e.ID.String()}
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": page, "page_info": info})
}
