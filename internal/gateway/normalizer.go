package gateway

import (
	"strings"
	"time"
)

// CanonicalEvent is the normalized internal shape of one gateway payment
// event. Normalization is pure; no lookups, no side effects.
type CanonicalEvent struct {
	Event                 string
	ExternalID            string
	GatewayCustomerID     string
	GatewaySubscriptionID string

	ChargedAmount    float64
	PaidAmount       *float64
	NetAmount        *float64
	InterestFeeDelta float64

	ExternalStatus string
	BillingType    string

	DueDate  *time.Time
	PaidDate *time.Time

	Description       string
	ExternalReference string
	InstallmentNumber *int
	InstallmentCount  *int

	Customer *CustomerInfo

	RawPayload []byte
}

// receivedStatuses are the gateway statuses under which the raw value can be
// taken as the paid amount when no net value is reported.
var receivedStatuses = map[string]struct{}{
	"RECEIVED":         {},
	"CONFIRMED":        {},
	"RECEIVED_IN_CASH": {},
}

func isReceivedStatus(status string) bool {
	_, ok := receivedStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}

// Normalize converts a parsed webhook payload into the canonical event.
// The raw body is retained verbatim for the staging audit copy.
func Normalize(payload *WebhookPayload, raw []byte) (*CanonicalEvent, error) {
	if payload == nil || payload.Payment == nil {
		return nil, &MissingFieldError{Field: "payment"}
	}
	payment := payload.Payment
	if strings.TrimSpace(payment.ID) == "" {
		return nil, &MissingFieldError{Field: "payment.id"}
	}

	charged := payment.Value
	if payment.OriginalValue != nil && *payment.OriginalValue > 0 {
		charged = *payment.OriginalValue
	}

	var paid *float64
	switch {
	case payment.NetValue != nil:
		paid = payment.NetValue
	case isReceivedStatus(payment.Status):
		value := payment.Value
		paid = &value
	}

	event := &CanonicalEvent{
		Event:                 strings.TrimSpace(payload.Event),
		ExternalID:            strings.TrimSpace(payment.ID),
		GatewayCustomerID:     strings.TrimSpace(payment.Customer),
		GatewaySubscriptionID: strings.TrimSpace(payment.Subscription),
		ChargedAmount:         charged,
		PaidAmount:            paid,
		NetAmount:             payment.NetValue,
		InterestFeeDelta:      interestFeeDelta(payment, charged, paid),
		ExternalStatus:        payment.Status,
		BillingType:           strings.TrimSpace(payment.BillingType),
		DueDate:               parseGatewayDate(payment.DueDate),
		PaidDate:              firstDate(payment.PaymentDate, payment.ClientPaymentDate, payment.ConfirmedDate),
		Description:           strings.TrimSpace(payment.Description),
		ExternalReference:     strings.TrimSpace(payment.ExternalReference),
		InstallmentNumber:     payment.InstallmentNumber,
		InstallmentCount:      payment.InstallmentCount,
		Customer:              payment.CustomerInfo,
		RawPayload:            raw,
	}

	return event, nil
}

// interestFeeDelta computes the interest/fee delta for a payment event.
// An explicit interest amount always wins over the derived difference, and
// the derived difference is clamped at zero: a fee is never inferred as
// negative from paid < charged.
func interestFeeDelta(payment *PaymentPayload, charged float64, paid *float64) float64 {
	if payment.InterestValue != nil && *payment.InterestValue > 0 {
		return *payment.InterestValue
	}
	if payment.Interest != nil && payment.Interest.Value > 0 {
		return payment.Interest.Value
	}
	if paid != nil && *paid > charged {
		return *paid - charged
	}
	return 0
}

func firstDate(candidates ...string) *time.Time {
	for _, raw := range candidates {
		if ts := parseGatewayDate(raw); ts != nil {
			return ts
		}
	}
	return nil
}
