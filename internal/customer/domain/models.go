package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Customer struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID          uuid.UUID    `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name              string       `json:"name" gorm:"type:text;not null"`
	Email             string       `json:"email" gorm:"type:text"`
	Phone             string       `json:"phone" gorm:"type:text"`
	Document          string       `json:"document" gorm:"type:text"`
	GatewayCustomerID string       `json:"gateway_customer_id" gorm:"type:text;index"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null"`
}

func (Customer) TableName() string { return "customers" }
