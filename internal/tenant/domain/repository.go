package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB) ([]Tenant, error)
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error

	UpsertIntegration(ctx context.Context, db *gorm.DB, integration *Integration) error
	FindActiveIntegration(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, integrationType string) (*Integration, error)
}
