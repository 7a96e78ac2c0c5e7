package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/gateway"
)

// ProcessResult reports the outcome of one webhook event. Created is true
// when the staging row did not exist before this delivery. Propagated is
// true only when a linked charge was actually written. PropagationError
// carries a propagation failure that did not affect the staging write.
type ProcessResult struct {
	StagingID        snowflake.ID
	Created          bool
	ChargeID         *snowflake.ID
	Propagated       bool
	PropagationError string
}

type Service interface {
	// ProcessWebhookEvent stages a normalized gateway event and mirrors it
	// onto the linked charge when one can be resolved. A staging failure
	// aborts the whole event; a propagation failure is reported inside the
	// result but leaves the staging write intact.
	ProcessWebhookEvent(ctx context.Context, tenantID uuid.UUID, event *gateway.CanonicalEvent) (*ProcessResult, error)

	// Sweep re-propagates staged events in batch, converging charges that
	// fell behind their staging rows.
	Sweep(ctx context.Context, tenantID uuid.UUID, req SweepRequest) (*SweepResult, error)

	ListStaging(ctx context.Context, tenantID uuid.UUID, filter StagingFilter) ([]StagingRecord, error)
	GetStaging(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*StagingRecord, error)
}

var (
	ErrStagingPersistence = errors.New("staging_persistence_failed")
	ErrStagingNotFound    = errors.New("staging_record_not_found")
)
