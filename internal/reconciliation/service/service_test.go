package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	auditdomain "github.com/revalya/revalya/internal/audit/domain"
	auditrepository "github.com/revalya/revalya/internal/audit/repository"
	auditservice "github.com/revalya/revalya/internal/audit/service"
	chargedomain "github.com/revalya/revalya/internal/charge/domain"
	chargerepository "github.com/revalya/revalya/internal/charge/repository"
	customerdomain "github.com/revalya/revalya/internal/customer/domain"
	customerrepository "github.com/revalya/revalya/internal/customer/repository"
	customerservice "github.com/revalya/revalya/internal/customer/service"
	"github.com/revalya/revalya/internal/gateway"
	"github.com/revalya/revalya/internal/observability/metrics"
	"github.com/revalya/revalya/internal/reconciliation/domain"
	"github.com/revalya/revalya/internal/reconciliation/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	svc        domain.Service
	chargeRepo chargedomain.Repository
	genID      *snowflake.Node
	tenantID   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithChargeRepo(t, nil)
}

func newTestEnvWithChargeRepo(t *testing.T, wrap func(chargedomain.Repository) chargedomain.Repository) *testEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&domain.StagingRecord{},
		&chargedomain.Charge{},
		&customerdomain.Customer{},
		&auditdomain.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	chargeRepo := chargerepository.Provide()
	if wrap != nil {
		chargeRepo = wrap(chargeRepo)
	}

	log := zap.NewNop()
	m := metrics.New(prometheus.NewRegistry())

	customers := customerservice.NewService(customerservice.Params{
		DB:    dbConn,
		Log:   log,
		GenID: node,
		Repo:  customerrepository.Provide(),
	})
	audit := auditservice.NewService(auditservice.Params{
		DB:    dbConn,
		Log:   log,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})

	svc := NewService(Params{
		DB:         dbConn,
		Log:        log,
		GenID:      node,
		Repo:       repository.Provide(),
		ChargeRepo: chargeRepo,
		Customers:  customers,
		Audit:      audit,
		Metrics:    m,
	})

	return &testEnv{
		db:         dbConn,
		svc:        svc,
		chargeRepo: chargeRepo,
		genID:      node,
		tenantID:   uuid.New(),
	}
}

func (e *testEnv) createCharge(t *testing.T, gatewayID string, amount float64) *chargedomain.Charge {
	t.Helper()
	now := time.Now().UTC()
	charge := &chargedomain.Charge{
		ID:              e.genID.Generate(),
		TenantID:        e.tenantID,
		GatewayChargeID: gatewayID,
		Status:          chargedomain.StatusPending,
		ChargedAmount:   amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.chargeRepo.Insert(context.Background(), e.db, charge); err != nil {
		t.Fatalf("failed to insert charge: %v", err)
	}
	return charge
}

func paidEvent(externalID string, value, net float64) *gateway.CanonicalEvent {
	paid := net
	return &gateway.CanonicalEvent{
		Event:          "PAYMENT_RECEIVED",
		ExternalID:     externalID,
		ChargedAmount:  value,
		PaidAmount:     &paid,
		ExternalStatus: "RECEIVED",
		RawPayload:     []byte(fmt.Sprintf(`{"payment":{"id":%q}}`, externalID)),
	}
}

func TestProcessWebhookEventIdempotentUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent("pay_1", 100, 100))
	if err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if !first.Created {
		t.Fatal("expected first delivery to create the staging row")
	}

	second, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent("pay_1", 100, 110))
	if err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}
	if second.Created {
		t.Fatal("expected redelivery to update in place")
	}
	if second.StagingID != first.StagingID {
		t.Fatalf("expected same staging row, got %d and %d", first.StagingID, second.StagingID)
	}

	var count int64
	if err := env.db.Raw(`SELECT COUNT(*) FROM conciliation_staging`).Scan(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 staging row, got %d", count)
	}

	record, err := env.svc.GetStaging(ctx, env.tenantID, first.StagingID)
	if err != nil {
		t.Fatalf("get staging failed: %v", err)
	}
	if record.PaidAmount == nil || *record.PaidAmount != 110 {
		t.Fatalf("expected snapshot refreshed to 110, got %v", record.PaidAmount)
	}
}

func TestPropagationUpdatesLinkedCharge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge := env.createCharge(t, "pay_9", 100)

	event := paidEvent("pay_9", 100, 105)
	event.InterestFeeDelta = 5

	result, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, event)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !result.Propagated {
		t.Fatal("expected propagation onto the linked charge")
	}
	if result.ChargeID == nil || *result.ChargeID != charge.ID {
		t.Fatalf("expected charge %d, got %v", charge.ID, result.ChargeID)
	}

	updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if updated.Status != chargedomain.StatusReceived {
		t.Fatalf("expected status RECEIVED, got %s", updated.Status)
	}
	if updated.PaidAmount == nil || *updated.PaidAmount != 105 {
		t.Fatalf("expected paid amount 105, got %v", updated.PaidAmount)
	}
	if updated.InterestFeeDelta != 5 {
		t.Fatalf("expected interest fee delta 5, got %f", updated.InterestFeeDelta)
	}

	// The resolved link is cached on the staging row.
	record, err := env.svc.GetStaging(ctx, env.tenantID, result.StagingID)
	if err != nil {
		t.Fatalf("get staging failed: %v", err)
	}
	if record.ChargeID == nil || *record.ChargeID != charge.ID {
		t.Fatalf("expected persisted charge link, got %v", record.ChargeID)
	}
	if record.ProcessedAt == nil {
		t.Fatal("expected staging row marked processed")
	}
}

func TestPropagationMirrorsDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge := env.createCharge(t, "pay_dates", 100)

	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	paidAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := paidEvent("pay_dates", 100, 100)
	event.DueDate = &due
	event.PaidDate = &paidAt

	result, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, event)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !result.Propagated {
		t.Fatal("expected propagation onto the linked charge")
	}

	updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("expected due date mirrored to %v, got %v", due, updated.DueDate)
	}
	if updated.PaidDate == nil || !updated.PaidDate.Equal(paidAt) {
		t.Fatalf("expected paid date mirrored to %v, got %v", paidAt, updated.PaidDate)
	}
}

func TestPropagationKeepsDueDateWhenEventHasNone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	charge := &chargedomain.Charge{
		ID:              env.genID.Generate(),
		TenantID:        env.tenantID,
		GatewayChargeID: "pay_keep",
		Status:          chargedomain.StatusPending,
		ChargedAmount:   100,
		DueDate:         &due,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := env.chargeRepo.Insert(ctx, env.db, charge); err != nil {
		t.Fatalf("failed to insert charge: %v", err)
	}

	if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent("pay_keep", 100, 100)); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("expected original due date kept, got %v", updated.DueDate)
	}
}

func TestRedeliveryWithChangedDatesIsNotSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge := env.createCharge(t, "pay_rdv", 100)

	paidAt := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	event := paidEvent("pay_rdv", 100, 100)
	event.PaidDate = &paidAt

	first, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, event)
	if err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if !first.Propagated {
		t.Fatal("expected first delivery to propagate")
	}

	// An identical redelivery finds the charge already consistent.
	same := paidEvent("pay_rdv", 100, 100)
	same.PaidDate = &paidAt
	second, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, same)
	if err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}
	if second.Propagated {
		t.Fatal("expected identical redelivery to be skipped")
	}

	// A redelivery that moves only the paid date must write through.
	moved := paidAt.Add(24 * time.Hour)
	changed := paidEvent("pay_rdv", 100, 100)
	changed.PaidDate = &moved
	third, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, changed)
	if err != nil {
		t.Fatalf("third delivery failed: %v", err)
	}
	if !third.Propagated {
		t.Fatal("expected date-only change to propagate")
	}

	updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if updated.PaidDate == nil || !updated.PaidDate.Equal(moved) {
		t.Fatalf("expected paid date moved to %v, got %v", moved, updated.PaidDate)
	}
}

func TestNoLinkIsANoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent("pay_orphan", 50, 50))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Propagated || result.ChargeID != nil {
		t.Fatal("expected no propagation without a resolvable charge")
	}
	if result.PropagationError != "" {
		t.Fatalf("expected no propagation error, got %q", result.PropagationError)
	}
}

func TestUnknownStatusMapsToPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge := env.createCharge(t, "pay_5", 100)

	event := paidEvent("pay_5", 100, 100)
	event.ExternalStatus = "SOMETHING_NEW"

	if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, event); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if updated.Status != chargedomain.StatusPending {
		t.Fatalf("expected unknown status to collapse to PENDING, got %s", updated.Status)
	}
}

func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	otherTenant := uuid.New()
	charge := env.createCharge(t, "pay_iso", 100)

	// Same external id delivered for a different tenant must not touch
	// this tenant's charge.
	result, err := env.svc.ProcessWebhookEvent(ctx, otherTenant, paidEvent("pay_iso", 100, 120))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Propagated {
		t.Fatal("expected no cross-tenant propagation")
	}

	untouched, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if untouched.Status != chargedomain.StatusPending || untouched.PaidAmount != nil {
		t.Fatal("expected charge untouched by other tenant's event")
	}
}

func TestSweepConvergesStagedEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Stage three events before their charges exist.
	for i := 1; i <= 3; i++ {
		externalID := fmt.Sprintf("pay_%d", i)
		if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent(externalID, 100, 100)); err != nil {
			t.Fatalf("staging %s failed: %v", externalID, err)
		}
	}

	charges := make([]*chargedomain.Charge, 0, 3)
	for i := 1; i <= 3; i++ {
		charges = append(charges, env.createCharge(t, fmt.Sprintf("pay_%d", i), 100))
	}

	result, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Scanned != 3 || result.Updated != 3 {
		t.Fatalf("expected 3 scanned and updated, got %+v", result)
	}

	for _, charge := range charges {
		updated, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
		if err != nil {
			t.Fatalf("find charge failed: %v", err)
		}
		if updated.Status != chargedomain.StatusReceived {
			t.Fatalf("expected charge %d converged to RECEIVED, got %s", charge.ID, updated.Status)
		}
	}

	// Processed rows drop out of the next sweep.
	again, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{})
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if again.Scanned != 0 {
		t.Fatalf("expected nothing left to sweep, got %d", again.Scanned)
	}

	// ForceUpdate revisits them; consistent charges are skipped.
	forced, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{ForceUpdate: true})
	if err != nil {
		t.Fatalf("forced sweep failed: %v", err)
	}
	if forced.Scanned != 3 || forced.Updated != 3 {
		t.Fatalf("expected forced sweep to rewrite 3 rows, got %+v", forced)
	}
}

func TestSweepDryRunWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent("pay_dry", 100, 100)); err != nil {
		t.Fatalf("staging failed: %v", err)
	}
	charge := env.createCharge(t, "pay_dry", 100)

	result, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{DryRun: true})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected dry run to report 1 pending update, got %+v", result)
	}

	untouched, err := env.chargeRepo.FindByID(ctx, env.db, env.tenantID, charge.ID)
	if err != nil {
		t.Fatalf("find charge failed: %v", err)
	}
	if untouched.Status != chargedomain.StatusPending || untouched.PaidAmount != nil {
		t.Fatal("expected dry run to leave the charge untouched")
	}
}

type faultyChargeRepo struct {
	chargedomain.Repository
	failGatewayID string
}

func (r *faultyChargeRepo) FindByGatewayID(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, gatewayChargeID string) (*chargedomain.Charge, error) {
	if gatewayChargeID == r.failGatewayID {
		return nil, errors.New("simulated lookup failure")
	}
	return r.Repository.FindByGatewayID(ctx, db, tenantID, gatewayChargeID)
}

func TestSweepIsolatesItemFailures(t *testing.T) {
	env := newTestEnvWithChargeRepo(t, func(inner chargedomain.Repository) chargedomain.Repository {
		return &faultyChargeRepo{Repository: inner, failGatewayID: "pay_2"}
	})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		externalID := fmt.Sprintf("pay_%d", i)
		if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent(externalID, 100, 100)); err != nil {
			t.Fatalf("staging %s failed: %v", externalID, err)
		}
		if externalID != "pay_2" {
			env.createCharge(t, externalID, 100)
		}
	}

	result, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected exactly one failed item, got %+v", result)
	}
	if result.Updated != 2 {
		t.Fatalf("expected the other two items updated, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].ExternalID != "pay_2" {
		t.Fatalf("expected one error for pay_2, got %+v", result.Errors)
	}
}

func TestSweepResponseCaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	total := domain.MaxSweepDetails + 5
	for i := 0; i < total; i++ {
		externalID := fmt.Sprintf("pay_cap_%03d", i)
		if _, err := env.svc.ProcessWebhookEvent(ctx, env.tenantID, paidEvent(externalID, 10, 10)); err != nil {
			t.Fatalf("staging %s failed: %v", externalID, err)
		}
		env.createCharge(t, externalID, 10)
	}

	result, err := env.svc.Sweep(ctx, env.tenantID, domain.SweepRequest{BatchSize: total})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Updated != total {
		t.Fatalf("expected all %d items counted, got %d", total, result.Updated)
	}
	if len(result.Details) != domain.MaxSweepDetails {
		t.Fatalf("expected details capped at %d, got %d", domain.MaxSweepDetails, len(result.Details))
	}
	if !result.DetailsTruncated {
		t.Fatal("expected truncation flag on capped details")
	}
}

func TestMapStatus(t *testing.T) {
	tests := map[string]string{
		"RECEIVED":         chargedomain.StatusReceived,
		"received":         chargedomain.StatusReceived,
		"CONFIRMED":        chargedomain.StatusConfirmed,
		"OVERDUE":          chargedomain.StatusOverdue,
		"REFUNDED":         chargedomain.StatusRefunded,
		"RECEIVED_IN_CASH": chargedomain.StatusReceivedInCash,
		"PENDING":          chargedomain.StatusPending,
		"AWAITING_RISK":    chargedomain.StatusPending,
		"":                 chargedomain.StatusPending,
	}
	for external, want := range tests {
		if got := domain.MapStatus(external); got != want {
			t.Fatalf("MapStatus(%q) = %q, want %q", external, got, want)
		}
	}
}
