package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	chargedomain "github.com/revalya/revalya/internal/charge/domain"
	"gorm.io/datatypes"
)

// OriginAsaas tags staging rows produced by the Asaas webhook ingress.
// The staging table is keyed by (tenant_id, external_id, origin) so a
// second gateway can land alongside without colliding.
const OriginAsaas = "ASAAS"

// StagingRecord is the durable copy of one gateway payment event. It is
// the source of truth for reconciliation: a charge may lag behind its
// staging row, never the other way around.
type StagingRecord struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID uuid.UUID    `json:"tenant_id" gorm:"index:idx_staging_key,unique"`

	ExternalID string `json:"external_id" gorm:"index:idx_staging_key,unique"`
	Origin     string `json:"origin" gorm:"index:idx_staging_key,unique"`

	Event          string `json:"event"`
	ExternalStatus string `json:"external_status"`

	ChargedAmount    float64  `json:"charged_amount"`
	PaidAmount       *float64 `json:"paid_amount,omitempty"`
	NetAmount        *float64 `json:"net_amount,omitempty"`
	InterestFeeDelta float64  `json:"interest_fee_delta"`

	BillingType string     `json:"billing_type,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`

	GatewayCustomerID     string `json:"gateway_customer_id,omitempty"`
	GatewaySubscriptionID string `json:"gateway_subscription_id,omitempty"`
	Description           string `json:"description,omitempty"`
	ExternalReference     string `json:"external_reference,omitempty"`

	// ChargeID is the resolved link to the internal charge. Once a link is
	// found it is persisted here so later deliveries and sweeps skip the
	// external-id lookup.
	ChargeID *snowflake.ID `json:"charge_id,omitempty"`

	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	RawPayload  datatypes.JSON `json:"raw_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StagingRecord) TableName() string {
	return "conciliation_staging"
}

// MapStatus translates a raw gateway status into the internal charge
// status. Unrecognized statuses collapse to PENDING rather than leaking
// gateway vocabulary downstream.
func MapStatus(external string) string {
	switch strings.ToUpper(strings.TrimSpace(external)) {
	case "RECEIVED":
		return chargedomain.StatusReceived
	case "CONFIRMED":
		return chargedomain.StatusConfirmed
	case "OVERDUE":
		return chargedomain.StatusOverdue
	case "REFUNDED":
		return chargedomain.StatusRefunded
	case "RECEIVED_IN_CASH":
		return chargedomain.StatusReceivedInCash
	default:
		return chargedomain.StatusPending
	}
}
