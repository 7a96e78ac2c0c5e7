package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StagingFilter struct {
	TenantID uuid.UUID
	Origin   string
	// Unprocessed limits the scan to rows never successfully propagated.
	Unprocessed bool
	Limit       int
	AfterID     snowflake.ID
}

type Repository interface {
	FindStaging(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, externalID, origin string) (*StagingRecord, error)
	FindStagingByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*StagingRecord, error)
	InsertStaging(ctx context.Context, db *gorm.DB, record *StagingRecord) error
	UpdateStaging(ctx context.Context, db *gorm.DB, record *StagingRecord) error
	ListStaging(ctx context.Context, db *gorm.DB, filter StagingFilter) ([]StagingRecord, error)
	SetChargeLink(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, chargeID snowflake.ID) error
	MarkProcessed(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, at time.Time) error
}
