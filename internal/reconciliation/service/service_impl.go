package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	auditdomain "github.com/revalya/revalya/internal/audit/domain"
	chargedomain "github.com/revalya/revalya/internal/charge/domain"
	customerdomain "github.com/revalya/revalya/internal/customer/domain"
	"github.com/revalya/revalya/internal/gateway"
	"github.com/revalya/revalya/internal/observability/metrics"
	"github.com/revalya/revalya/internal/reconciliation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ChargeRepo chargedomain.Repository
	Customers  customerdomain.Service
	Audit      auditdomain.Service
	Metrics    *metrics.Metrics
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	chargeRepo chargedomain.Repository
	customers  customerdomain.Service
	audit      auditdomain.Service
	metrics    *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("reconciliation.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		chargeRepo: p.ChargeRepo,
		customers:  p.Customers,
		audit:      p.Audit,
		metrics:    p.Metrics,
	}
}

// ProcessWebhookEvent stages the event, then mirrors it onto the linked
// charge. The staging write is the durability boundary: if it fails the
// whole event fails, and once it succeeds the caller is told success even
// when propagation lags behind.
func (s *Service) ProcessWebhookEvent(ctx context.Context, tenantID uuid.UUID, event *gateway.CanonicalEvent) (*domain.ProcessResult, error) {
	if event == nil || event.ExternalID == "" {
		return nil, gateway.ErrInvalidPayload
	}

	record, created, err := s.upsertStaging(ctx, tenantID, event)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeStagingError).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrStagingPersistence, err)
	}

	result := &domain.ProcessResult{
		StagingID: record.ID,
		Created:   created,
	}

	s.enrichCustomer(ctx, tenantID, event)

	charge, action, err := s.propagate(ctx, record, propagateOpts{})
	switch {
	case err != nil:
		result.PropagationError = err.Error()
		s.log.Warn("propagation failed after staging write",
			zap.String("tenant_id", tenantID.String()),
			zap.String("external_id", record.ExternalID),
			zap.Int64("staging_id", int64(record.ID)),
			zap.Error(err),
		)
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeStaged).Inc()
	case charge == nil:
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomeUnlinked).Inc()
	default:
		id := charge.ID
		result.ChargeID = &id
		result.Propagated = action == domain.SweepActionUpdated
		s.metrics.WebhookEvents.WithLabelValues(metrics.OutcomePropagated).Inc()
	}

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID: tenantID,
		Action:   auditdomain.ActionWebhookReceived,
		Resource: fmt.Sprintf("staging/%d", record.ID),
		Detail: map[string]any{
			"event":             event.Event,
			"external_id":       record.ExternalID,
			"created":           created,
			"propagated":        result.Propagated,
			"propagation_error": result.PropagationError,
		},
	})

	return result, nil
}

// upsertStaging writes the event snapshot keyed by
// (tenant_id, external_id, origin). A redelivery refreshes the snapshot in
// place and keeps the resolved charge link and created_at.
func (s *Service) upsertStaging(ctx context.Context, tenantID uuid.UUID, event *gateway.CanonicalEvent) (*domain.StagingRecord, bool, error) {
	existing, err := s.repo.FindStaging(ctx, s.db, tenantID, event.ExternalID, domain.OriginAsaas)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if existing == nil {
		record := &domain.StagingRecord{
			ID:       s.genID.Generate(),
			TenantID: tenantID,

			ExternalID: event.ExternalID,
			Origin:     domain.OriginAsaas,

			Event:          event.Event,
			ExternalStatus: event.ExternalStatus,

			ChargedAmount:    event.ChargedAmount,
			PaidAmount:       event.PaidAmount,
			NetAmount:        event.NetAmount,
			InterestFeeDelta: event.InterestFeeDelta,

			BillingType: event.BillingType,
			DueDate:     event.DueDate,
			PaidDate:    event.PaidDate,

			GatewayCustomerID:     event.GatewayCustomerID,
			GatewaySubscriptionID: event.GatewaySubscriptionID,
			Description:           event.Description,
			ExternalReference:     event.ExternalReference,

			RawPayload: event.RawPayload,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.InsertStaging(ctx, s.db, record); err != nil {
			return nil, false, err
		}
		return record, true, nil
	}

	existing.Event = event.Event
	existing.ExternalStatus = event.ExternalStatus
	existing.ChargedAmount = event.ChargedAmount
	existing.PaidAmount = event.PaidAmount
	existing.NetAmount = event.NetAmount
	existing.InterestFeeDelta = event.InterestFeeDelta
	existing.BillingType = event.BillingType
	existing.DueDate = event.DueDate
	existing.PaidDate = event.PaidDate
	existing.GatewayCustomerID = event.GatewayCustomerID
	existing.GatewaySubscriptionID = event.GatewaySubscriptionID
	existing.Description = event.Description
	existing.ExternalReference = event.ExternalReference
	existing.RawPayload = event.RawPayload
	existing.ProcessedAt = nil
	existing.UpdatedAt = now

	if err := s.repo.UpdateStaging(ctx, s.db, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// enrichCustomer backfills customer metadata carried on the event.
// Best-effort: failures are logged inside the customer service.
func (s *Service) enrichCustomer(ctx context.Context, tenantID uuid.UUID, event *gateway.CanonicalEvent) {
	if event.Customer == nil || event.GatewayCustomerID == "" {
		return
	}
	_ = s.customers.EnrichFromGateway(ctx, tenantID, event.GatewayCustomerID, customerdomain.EnrichmentData{
		Name:     event.Customer.Name,
		Email:    event.Customer.Email,
		Phone:    event.Customer.Phone,
		Document: event.Customer.Document,
	})
}

type propagateOpts struct {
	DryRun      bool
	ForceUpdate bool
}

// propagate mirrors a staging row onto its charge. Returns the resolved
// charge (nil when no link exists) and the action taken. A nil charge with
// a nil error is a defined no-op, not a failure.
func (s *Service) propagate(ctx context.Context, record *domain.StagingRecord, opts propagateOpts) (*chargedomain.Charge, domain.SweepAction, error) {
	charge, err := s.resolveCharge(ctx, record, opts.DryRun)
	if err != nil {
		return nil, "", err
	}
	if charge == nil {
		return nil, "", nil
	}

	mapped := domain.MapStatus(record.ExternalStatus)
	if !opts.ForceUpdate && chargeConsistent(charge, record, mapped) {
		return charge, domain.SweepActionSkipped, nil
	}
	if opts.DryRun {
		return charge, domain.SweepActionUpdated, nil
	}

	update := chargedomain.SettlementUpdate{
		Status:           mapped,
		PaidAmount:       record.PaidAmount,
		InterestFeeDelta: record.InterestFeeDelta,
		DueDate:          record.DueDate,
		PaidDate:         record.PaidDate,
		BillingType:      record.BillingType,
	}
	if err := s.chargeRepo.ApplySettlement(ctx, s.db, record.TenantID, charge.ID, update); err != nil {
		return charge, "", err
	}
	s.metrics.ChargesSettled.Inc()

	now := time.Now().UTC()
	if err := s.repo.MarkProcessed(ctx, s.db, record.TenantID, record.ID, now); err != nil {
		s.log.Warn("failed to mark staging row processed",
			zap.Int64("staging_id", int64(record.ID)),
			zap.Error(err),
		)
	}
	record.ProcessedAt = &now
	return charge, domain.SweepActionUpdated, nil
}

// resolveCharge finds the charge a staging row mirrors to. A stored link
// wins; otherwise the charge is looked up by its gateway id and, outside
// dry runs, the link is persisted back so the lookup happens once.
func (s *Service) resolveCharge(ctx context.Context, record *domain.StagingRecord, dryRun bool) (*chargedomain.Charge, error) {
	if record.ChargeID != nil {
		charge, err := s.chargeRepo.FindByID(ctx, s.db, record.TenantID, *record.ChargeID)
		if err != nil {
			return nil, err
		}
		if charge != nil {
			return charge, nil
		}
		// Stale link: the charge was deleted after linking. Fall through to
		// the external-id lookup.
	}

	charge, err := s.chargeRepo.FindByGatewayID(ctx, s.db, record.TenantID, record.ExternalID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, nil
	}

	if !dryRun {
		if err := s.repo.SetChargeLink(ctx, s.db, record.TenantID, record.ID, charge.ID); err != nil {
			s.log.Warn("failed to persist charge link on staging row",
				zap.Int64("staging_id", int64(record.ID)),
				zap.Int64("charge_id", int64(charge.ID)),
				zap.Error(err),
			)
		} else {
			id := charge.ID
			record.ChargeID = &id
		}
	}
	return charge, nil
}

// chargeConsistent reports whether the charge already reflects the staging
// row, in which case propagation has nothing to write.
func chargeConsistent(charge *chargedomain.Charge, record *domain.StagingRecord, mappedStatus string) bool {
	if charge.Status != mappedStatus {
		return false
	}
	if !floatPtrEqual(charge.PaidAmount, record.PaidAmount) {
		return false
	}
	if !floatEqual(charge.InterestFeeDelta, record.InterestFeeDelta) {
		return false
	}
	if !timePtrEqual(charge.PaidDate, record.PaidDate) {
		return false
	}
	// An event without a due date never overwrites the charge's schedule,
	// so it cannot make the due date inconsistent either.
	if record.DueDate != nil && !timePtrEqual(charge.DueDate, record.DueDate) {
		return false
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return floatEqual(*a, *b)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func (s *Service) ListStaging(ctx context.Context, tenantID uuid.UUID, filter domain.StagingFilter) ([]domain.StagingRecord, error) {
	filter.TenantID = tenantID
	return s.repo.ListStaging(ctx, s.db, filter)
}

func (s *Service) GetStaging(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*domain.StagingRecord, error) {
	record, err := s.repo.FindStagingByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrStagingNotFound
	}
	return record, nil
}
