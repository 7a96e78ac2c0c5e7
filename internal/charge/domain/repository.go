package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	TenantID uuid.UUID
	Status   string
	Limit    int

	// BeforeID restricts the page to rows older than the cursor. Rows are
	// listed newest first; snowflake ids carry the creation order.
	BeforeID snowflake.ID
}

// SettlementUpdate is the slice of a charge that reconciliation is allowed
// to touch. Everything else on the row belongs to the tenant's CRUD flows.
type SettlementUpdate struct {
	Status           string
	PaidAmount       *float64
	InterestFeeDelta float64
	// DueDate replaces the charge's due date only when set; a nil due date
	// on the event leaves the charge's own schedule alone.
	DueDate     *time.Time
	PaidDate    *time.Time
	BillingType string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*Charge, error)
	FindByGatewayID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, gatewayChargeID string) (*Charge, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Charge, error)
	Update(ctx context.Context, db *gorm.DB, charge *Charge) error
	ApplySettlement(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, update SettlementUpdate) error
}
