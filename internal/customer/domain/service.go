package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	TenantID          uuid.UUID `json:"-"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Document          string    `json:"document"`
	GatewayCustomerID string    `json:"gateway_customer_id"`
}

// EnrichmentData carries optional customer metadata observed on a gateway
// event; empty fields never overwrite existing values.
type EnrichmentData struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetByID(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, search string) ([]Customer, error)
	EnrichFromGateway(ctx context.Context, tenantID uuid.UUID, gatewayCustomerID string, data EnrichmentData) error
}

var (
	ErrNotFound    = errors.New("customer_not_found")
	ErrInvalidName = errors.New("invalid_name")
)
