package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Tenant is an isolated customer organization. All data rows are scoped to
// exactly one tenant.
type Tenant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Slug      string    `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Tenant) TableName() string { return "tenants" }

// Integration holds a tenant's payment-gateway configuration. The webhook
// secret gates signature verification for that tenant's deliveries.
type Integration struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID        uuid.UUID    `json:"tenant_id" gorm:"type:uuid;not null;index:idx_integrations_key,unique"`
	IntegrationType string       `json:"integration_type" gorm:"type:text;not null;index:idx_integrations_key,unique"`
	APIKey          string       `json:"-" gorm:"type:text"`
	WebhookSecret   string       `json:"-" gorm:"type:text"`
	Active          bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null"`
}

func (Integration) TableName() string { return "tenant_integrations" }

const (
	IntegrationTypeAsaas = "ASAAS"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)
