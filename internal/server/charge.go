package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	chargedomain "github.com/revalya/revalya/internal/charge/domain"
	"github.com/revalya/revalya/internal/tenantctx"
	"github.com/revalya/revalya/pkg/db/pagination"
)

func (s *Server) handleCreateCharge(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req chargedomain.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TenantID = tenantID

	charge, err := s.chargeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

func (s *Server) handleListCharges(c *gin.Context) {
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

	filter := chargedomain.ListFilter{
		Status: c.Query("status"),
		Limit:  pageSize + 1,
	}
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

	charges, err := s.chargeSvc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, info, err := pagination.Trim(charges, pageSize, func(ch chargedomain.Charge) pagination.Cursor {
		return pagination.Cursor{ID: ch.ID.String()}
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charges": page, "page_info": info})
}

func (s *Server) handleGetCharge(c *gin.Context) {
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

	charge, err := s.chargeSvc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, charge)
}
