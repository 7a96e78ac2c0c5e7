package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type CreateChargeRequest struct {
	TenantID        uuid.UUID    `json:"-"`
	CustomerID      snowflake.ID `json:"customer_id"`
	GatewayChargeID string       `json:"gateway_charge_id"`
	BillingType     string       `json:"billing_type"`
	ChargedAmount   float64      `json:"charged_amount"`
	DueDate         *time.Time   `json:"due_date"`
	Description     string       `json:"description"`
}

type Service interface {
	Create(ctx context.Context, req CreateChargeRequest) (*Charge, error)
	GetByID(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*Charge, error)
	GetByGatewayID(ctx context.Context, tenantID uuid.UUID, gatewayChargeID string) (*Charge, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Charge, error)
	ApplySettlement(ctx context.Context, tenantID uuid.UUID, id snowflake.ID, update SettlementUpdate) error
}

var (
	ErrNotFound        = errors.New("charge_not_found")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrGatewayIDExists = errors.New("gateway_charge_id_exists")
)
