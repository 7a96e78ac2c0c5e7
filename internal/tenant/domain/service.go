package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type UpsertIntegrationRequest struct {
	TenantID        uuid.UUID `json:"tenant_id"`
	IntegrationType string    `json:"integration_type"`
	APIKey          string    `json:"api_key"`
	WebhookSecret   string    `json:"webhook_secret"`
	Active          bool      `json:"active"`
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Tenant, error)

	UpsertIntegration(ctx context.Context, req UpsertIntegrationRequest) (*Integration, error)
	ActiveIntegration(ctx context.Context, tenantID uuid.UUID, integrationType string) (*Integration, error)
}

var (
	ErrNotFound            = errors.New("tenant_not_found")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSlug         = errors.New("invalid_slug")
	ErrSlugExists          = errors.New("slug_exists")
	ErrIntegrationNotFound = errors.New("integration_not_found")
	ErrInvalidIntegration  = errors.New("invalid_integration")
)
