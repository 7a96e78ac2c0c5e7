package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, name, slug, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tenant.ID,
		tenant.Name,
		tenant.Slug,
		tenant.Active,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Tenant, error) {
	var item domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants
		 WHERE id = ?
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Tenant, error) {
	var item domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants
		 WHERE slug = ?
		 LIMIT 1`,
		slug,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Tenant, error) {
	var items []domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants
		 ORDER BY created_at DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET name = ?, slug = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		tenant.Name,
		tenant.Slug,
		tenant.Active,
		tenant.UpdatedAt,
		tenant.ID,
	).Error
}

func (r *repo) UpsertIntegration(ctx context.Context, db *gorm.DB, integration *domain.Integration) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tenant_integrations (
			id, tenant_id, integration_type, api_key, webhook_secret, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, integration_type) DO UPDATE SET
			api_key = excluded.api_key,
			webhook_secret = excluded.webhook_secret,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		integration.ID,
		integration.TenantID,
		integration.IntegrationType,
		integration.APIKey,
		integration.WebhookSecret,
		integration.Active,
		integration.CreatedAt,
		integration.UpdatedAt,
	).Error
}

func (r *repo) FindActiveIntegration(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, integrationType string) (*domain.Integration, error) {
	var item domain.Integration
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, integration_type, api_key, webhook_secret, active, created_at, updated_at
		 FROM tenant_integrations
		 WHERE tenant_id = ? AND integration_type = ? AND active = TRUE
		 LIMIT 1`,
		tenantID,
		integrationType,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}
