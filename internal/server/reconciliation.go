package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconciliationdomain "github.com/revalya/revalya/internal/reconciliation/domain"
	"github.com/revalya/revalya/internal/tenantctx"
	"github.com/revalya/revalya/pkg/db/pagination"
)

type syncChargesRequest struct {
	TenantID    string `json:"tenant_id"`
	BatchSize   int    `json:"batch_size"`
	DryRun      bool   `json:"dry_run"`
	ForceUpdate bool   `json:"force_update"`
}

// handleSyncCharges runs the batch reconciliation sweep. The target
// tenant defaults to the session tenant; naming another tenant in the
// body is rejected.
func (s *Server) handleSyncCharges(c *gin.Context) {
	sessionTenant, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req syncChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.TenantID != "" {
		requested, err := uuid.Parse(req.TenantID)
		if err != nil {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "tenant id must be a uuid"))
			return
		}
		if requested != sessionTenant {
			AbortWithError(c, ErrForbidden)
			return
		}
	}

	result, err := s.reconciliationSvc.Sweep(c.Request.Context(), sessionTenant, reconciliationdomain.SweepRequest{
		BatchSize:   req.BatchSize,
		DryRun:      req.DryRun,
		ForceUpdate: req.ForceUpdate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListStaging(c *gin.Context) {
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

	filter := reconciliationdomain.StagingFilter{
		Unprocessed: c.Query("unprocessed") == "true",
		Limit:       pageSize + 1,
	}
	if q.PageToken != "" {
		cursor, err := pagination.DecodeCursor(q.PageToken)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page token is malformed"))
			return
		}
		if cursor.ID != "" {
			after, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page token is malformed"))
				return
			}
			filter.AfterID = after
		}
	}

	records, err := s.reconciliationSvc.ListStaging(c.Request.Context(), tenantID, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, info, err := pagination.Trim(records, pageSize, func(r reconciliationdomain.StagingRecord) pagination.Cursor {
		return pagination.Cursor{ID: r.ID.String()}
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staging": page, "page_info": info})
}

func (s *Server) handleGetStaging(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "id must be a snowflake id"))
		return
	}

	record, err := s.reconciliationSvc.GetStaging(c.Request.Context(), tenantID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
