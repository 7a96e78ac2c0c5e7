package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/charge/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const chargeColumns = `id, tenant_id, customer_id, gateway_charge_id, status, billing_type,
	charged_amount, paid_amount, interest_fee_delta, due_date, paid_date, description,
	created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.Charge) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO charges (
			id, tenant_id, customer_id, gateway_charge_id, status, billing_type,
			charged_amount, paid_amount, interest_fee_delta, due_date, paid_date,
			description, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		charge.ID,
		charge.TenantID,
		charge.CustomerID,
		charge.GatewayChargeID,
		charge.Status,
		charge.BillingType,
		charge.ChargedAmount,
		charge.PaidAmount,
		charge.InterestFeeDelta,
		charge.DueDate,
		charge.PaidDate,
		charge.Description,
		charge.CreatedAt,
		charge.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*domain.Charge, error) {
	var item domain.Charge
	err := db.WithContext(ctx).Raw(
		`SELECT `+chargeColumns+`
		 FROM charges
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

func (r *repo) FindByGatewayID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, gatewayChargeID string) (*domain.Charge, error) {
	gatewayChargeID = strings.TrimSpace(gatewayChargeID)
	if gatewayChargeID == "" {
		return nil, nil
	}
	var item domain.Charge
	err := db.WithContext(ctx).Raw(
		`SELECT `+chargeColumns+`
		 FROM charges
		 WHERE tenant_id = ? AND gateway_charge_id = ?
		 LIMIT 1`,
		tenantID,
		gatewayChargeID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Charge, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + chargeColumns + `
		 FROM charges
		 WHERE tenant_id = ?`
	args := []any{filter.TenantID}

	if status := strings.TrimSpace(filter.Status); status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if filter.BeforeID != 0 {
		query += ` AND id < ?`
		args = append(args, filter.BeforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var items []domain.Charge
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, charge *domain.Charge) error {
	return db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET customer_id = ?, status = ?, billing_type = ?, charged_amount = ?,
		     paid_amount = ?, interest_fee_delta = ?, due_date = ?, paid_date = ?,
		     description = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		charge.CustomerID,
		charge.Status,
		charge.BillingType,
		charge.ChargedAmount,
		charge.PaidAmount,
		charge.InterestFeeDelta,
		charge.DueDate,
		charge.PaidDate,
		charge.Description,
		charge.UpdatedAt,
		charge.TenantID,
		charge.ID,
	).Error
}

func (r *repo) ApplySettlement(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, update domain.SettlementUpdate) error {
	return db.WithContext(ctx).Exec(
		`UPDATE charges
		 SET status = ?, paid_amount = ?, interest_fee_delta = ?, paid_date = ?,
		     due_date = COALESCE(?, due_date),
		     billing_type = CASE WHEN ? != '' THEN ? ELSE billing_type END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE tenant_id = ? AND id = ?`,
		update.Status,
		update.PaidAmount,
		update.InterestFeeDelta,
		update.PaidDate,
		update.DueDate,
		update.BillingType,
		update.BillingType,
		tenantID,
		id,
	).Error
}
