package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	auditdomain "github.com/revalya/revalya/internal/audit/domain"
	"github.com/revalya/revalya/internal/reconciliation/domain"
	"go.uber.org/zap"
)

// Sweep walks staged events for a tenant and re-propagates each one onto
// its charge. Items fail independently: one malformed row never stops the
// rest of the batch.
func (s *Service) Sweep(ctx context.Context, tenantID uuid.UUID, req domain.SweepRequest) (*domain.SweepResult, error) {
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultSweepBatchSize
	}
	if batchSize > domain.MaxSweepBatchSize {
		batchSize = domain.MaxSweepBatchSize
	}

	records, err := s.repo.ListStaging(ctx, s.db, domain.StagingFilter{
		TenantID:    tenantID,
		Origin:      domain.OriginAsaas,
		Unprocessed: !req.ForceUpdate,
		Limit:       batchSize,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.SweepResult{
		DryRun:      req.DryRun,
		ForceUpdate: req.ForceUpdate,
	}

	for i := range records {
		record := &records[i]
		result.Scanned++

		charge, action, err := s.propagate(ctx, record, propagateOpts{
			DryRun:      req.DryRun,
			ForceUpdate: req.ForceUpdate,
		})
		if err != nil {
			result.Failed++
			result.AddError(domain.SweepError{
				StagingID:  record.ID,
				ExternalID: record.ExternalID,
				Error:      err.Error(),
			})
			s.metrics.SweepItems.WithLabelValues("failed").Inc()
			continue
		}
		if charge == nil {
			result.Unlinked++
			s.metrics.SweepItems.WithLabelValues("unlinked").Inc()
			continue
		}

		chargeID := charge.ID
		detail := domain.SweepDetail{
			StagingID:  record.ID,
			ExternalID: record.ExternalID,
			ChargeID:   &chargeID,
			Status:     domain.MapStatus(record.ExternalStatus),
			Action:     action,
		}
		switch action {
		case domain.SweepActionUpdated:
			result.Updated++
			s.metrics.SweepItems.WithLabelValues("updated").Inc()
		default:
			result.Skipped++
			s.metrics.SweepItems.WithLabelValues("skipped").Inc()
		}
		result.AddDetail(detail)
	}

	s.metrics.SweepRuns.WithLabelValues(fmt.Sprintf("%t", req.DryRun)).Inc()
	s.log.Info("reconciliation sweep finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("dry_run", req.DryRun),
		zap.Bool("force_update", req.ForceUpdate),
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("unlinked", result.Unlinked),
		zap.Int("failed", result.Failed),
	)

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID: tenantID,
		Action:   auditdomain.ActionSweepRun,
		Resource: "reconciliation/sweep",
		Detail: map[string]any{
			"dry_run":      req.DryRun,
			"force_update": req.ForceUpdate,
			"scanned":      result.Scanned,
			"updated":      result.Updated,
			"skipped":      result.Skipped,
			"unlinked":     result.Unlinked,
			"failed":       result.Failed,
		},
	})

	return result, nil
}
