package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	TenantID uuid.UUID
	Limit    int

	// BeforeID restricts the page to rows older than the cursor; entries
	// are listed newest first.
	BeforeID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]AuditLog, error)
}
