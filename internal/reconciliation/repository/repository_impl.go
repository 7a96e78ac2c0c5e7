package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/reconciliation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const stagingColumns = `id, tenant_id, external_id, origin, event, external_status,
	charged_amount, paid_amount, net_amount, interest_fee_delta, billing_type,
	due_date, paid_date, gateway_customer_id, gateway_subscription_id,
	description, external_reference, charge_id, processed_at, raw_payload,
	created_at, updated_at`

func (r *repo) FindStaging(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, externalID, origin string) (*domain.StagingRecord, error) {
	var item domain.StagingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+stagingColumns+`
		 FROM conciliation_staging
		 WHERE tenant_id = ? AND external_id = ? AND origin = ?
		 LIMIT 1`,
		tenantID,
		strings.TrimSpace(externalID),
		origin,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindStagingByID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID) (*domain.StagingRecord, error) {
	var item domain.StagingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+stagingColumns+`
		 FROM conciliation_staging
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

func (r *repo) InsertStaging(ctx context.Context, db *gorm.DB, record *domain.StagingRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO conciliation_staging (
			id, tenant_id, external_id, origin, event, external_status,
			charged_amount, paid_amount, net_amount, interest_fee_delta,
			billing_type, due_date, paid_date, gateway_customer_id,
			gateway_subscription_id, description, external_reference,
			charge_id, processed_at, raw_payload, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.TenantID,
		record.ExternalID,
		record.Origin,
		record.Event,
		record.ExternalStatus,
		record.ChargedAmount,
		record.PaidAmount,
		record.NetAmount,
		record.InterestFeeDelta,
		record.BillingType,
		record.DueDate,
		record.PaidDate,
		record.GatewayCustomerID,
		record.GatewaySubscriptionID,
		record.Description,
		record.ExternalReference,
		record.ChargeID,
		record.ProcessedAt,
		record.RawPayload,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

// UpdateStaging overwrites the event snapshot on an existing row. The
// identity key (tenant_id, external_id, origin) and created_at are
// immutable once written.
func (r *repo) UpdateStaging(ctx context.Context, db *gorm.DB, record *domain.StagingRecord) error {
	return db.WithContext(ctx).Exec(
		`UPDATE conciliation_staging
		 SET event = ?, external_status = ?, charged_amount = ?, paid_amount = ?,
		     net_amount = ?, interest_fee_delta = ?, billing_type = ?, due_date = ?,
		     paid_date = ?, gateway_customer_id = ?, gateway_subscription_id = ?,
		     description = ?, external_reference = ?, charge_id = ?, processed_at = ?,
		     raw_payload = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		record.Event,
		record.ExternalStatus,
		record.ChargedAmount,
		record.PaidAmount,
		record.NetAmount,
		record.InterestFeeDelta,
		record.BillingType,
		record.DueDate,
		record.PaidDate,
		record.GatewayCustomerID,
		record.GatewaySubscriptionID,
		record.Description,
		record.ExternalReference,
		record.ChargeID,
		record.ProcessedAt,
		record.RawPayload,
		record.UpdatedAt,
		record.TenantID,
		record.ID,
	).Error
}

func (r *repo) ListStaging(ctx context.Context, db *gorm.DB, filter domain.StagingFilter) ([]domain.StagingRecord, error) {
	limit := filter.Limit
	if limit <= 0 || limit > domain.MaxSweepBatchSize {
		limit = domain.DefaultSweepBatchSize
	}

	query := `SELECT ` + stagingColumns + `
		 FROM conciliation_staging
		 WHERE tenant_id = ?`
	args := []any{filter.TenantID}

	if origin := strings.TrimSpace(filter.Origin); origin != "" {
		query += ` AND origin = ?`
		args = append(args, origin)
	}
	if filter.Unprocessed {
		query += ` AND processed_at IS NULL`
	}
	if filter.AfterID > 0 {
		query += ` AND id > ?`
		args = append(args, filter.AfterID)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	var items []domain.StagingRecord
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetChargeLink(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, chargeID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE conciliation_staging
		 SET charge_id = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		chargeID,
		time.Now().UTC(),
		tenantID,
		id,
	).Error
}

func (r *repo) MarkProcessed(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE conciliation_staging
		 SET processed_at = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		at,
		at,
		tenantID,
		id,
	).Error
}
