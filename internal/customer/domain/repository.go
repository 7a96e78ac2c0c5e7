package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	TenantID uuid.UUID
	Search   string
	Limit    int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*Customer, error)
	FindByGatewayID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, gatewayCustomerID string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
}
