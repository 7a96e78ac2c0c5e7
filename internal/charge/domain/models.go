package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Charge statuses. Gateway statuses outside the known set collapse to
// StatusPending so downstream consumers never see a value they cannot
// handle.
const (
	StatusPending        = "PENDING"
	StatusReceived       = "RECEIVED"
	StatusConfirmed      = "CONFIRMED"
	StatusOverdue        = "OVERDUE"
	StatusRefunded       = "REFUNDED"
	StatusReceivedInCash = "RECEIVED_IN_CASH"
)

type Charge struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID         uuid.UUID    `json:"tenant_id" gorm:"index:idx_charges_gateway,unique"`
	CustomerID       snowflake.ID `json:"customer_id,omitempty"`
	GatewayChargeID  string       `json:"gateway_charge_id" gorm:"index:idx_charges_gateway,unique"`
	Status           string       `json:"status"`
	BillingType      string       `json:"billing_type,omitempty"`
	ChargedAmount    float64      `json:"charged_amount"`
	PaidAmount       *float64     `json:"paid_amount,omitempty"`
	InterestFeeDelta float64      `json:"interest_fee_delta"`
	DueDate          *time.Time   `json:"due_date,omitempty"`
	PaidDate         *time.Time   `json:"paid_date,omitempty"`
	Description      string       `json:"description,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (Charge) TableName() string {
	return "charges"
}

// KnownStatus reports whether s is one of the charge statuses this
// service emits.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusReceived, StatusConfirmed, StatusOverdue, StatusRefunded, StatusReceivedInCash:
		return true
	}
	return false
}
