package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionWebhookReceived  = "webhook.received"
	ActionWebhookRejected  = "webhook.rejected"
	ActionStagingUpserted  = "staging.upserted"
	ActionChargeSettled    = "charge.settled"
	ActionSweepRun         = "reconciliation.sweep"
	ActionSessionLogin     = "session.login"
	ActionSessionLogout    = "session.logout"
	ActionTenantSwitched   = "session.tenant_switched"
	ActionIntegrationSaved = "tenant.integration_saved"
)

type AuditLog struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"index:idx_audit_tenant"`
	ActorID   snowflake.ID   `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource,omitempty"`
	Detail    datatypes.JSON `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
