package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (
			id, tenant_id, name, email, phone, document, gateway_customer_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.TenantID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Document,
		customer.GatewayCustomerID,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*domain.Customer, error) {
	var item domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, email, phone, document, gateway_customer_id, created_at, updated_at
		 FROM customers
		 WHERE tenant_id = ? AND id = ?
		 LIMIT 1`,
		tenantID,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByGatewayID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, gatewayCustomerID string) (*domain.Customer, error) {
	gatewayCustomerID = strings.TrimSpace(gatewayCustomerID)
	if gatewayCustomerID == "" {
		return nil, nil
	}
	var item domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, email, phone, document, gateway_customer_id, created_at, updated_at
		 FROM customers
		 WHERE tenant_id = ? AND gateway_customer_id = ?
		 LIMIT 1`,
		tenantID,
		gatewayCustomerID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Customer, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}

	query := `SELECT id, tenant_id, name, email, phone, document, gateway_customer_id, created_at, updated_at
		 FROM customers
		 WHERE tenant_id = ?`
	args := []any{filter.TenantID}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += ` AND (name LIKE ? OR email LIKE ? OR document LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	var items []domain.Customer
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET name = ?, email = ?, phone = ?, document = ?, gateway_customer_id = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Document,
		customer.GatewayCustomerID,
		customer.UpdatedAt,
		customer.TenantID,
		customer.ID,
	).Error
}
