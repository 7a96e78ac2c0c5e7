package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// WebhookPayload is the envelope delivered by the payment gateway. Unknown
// event names are accepted; the payment block carries the authoritative
// state regardless of which event announced it.
type WebhookPayload struct {
	Event   string          `json:"event"`
	Payment *PaymentPayload `json:"payment"`
}

// PaymentPayload mirrors the gateway's payment object. Monetary values are
// decimal currency units as sent on the wire.
type PaymentPayload struct {
	ID                string         `json:"id"`
	Customer          string         `json:"customer"`
	Subscription      string         `json:"subscription"`
	Value             float64        `json:"value"`
	NetValue          *float64       `json:"netValue"`
	OriginalValue     *float64       `json:"originalValue"`
	InterestValue     *float64       `json:"interestValue"`
	Description       string         `json:"description"`
	BillingType       string         `json:"billingType"`
	Status            string         `json:"status"`
	DueDate           string         `json:"dueDate"`
	OriginalDueDate   string         `json:"originalDueDate"`
	PaymentDate       string         `json:"paymentDate"`
	ClientPaymentDate string         `json:"clientPaymentDate"`
	ConfirmedDate     string         `json:"confirmedDate"`
	InvoiceURL        string         `json:"invoiceUrl"`
	BankSlipURL       string         `json:"bankSlipUrl"`
	ExternalReference string         `json:"externalReference"`
	InstallmentNumber *int           `json:"installmentNumber"`
	InstallmentCount  *int           `json:"installmentCount"`
	Interest          *NestedAmount  `json:"interest"`
	Fine              *NestedAmount  `json:"fine"`
	Discount          *NestedAmount  `json:"discount"`
	CustomerInfo      *CustomerInfo  `json:"customerInfo"`
	Deleted           bool           `json:"deleted"`
}

// NestedAmount is the gateway's `{ "value": n }` wrapper.
type NestedAmount struct {
	Value float64 `json:"value"`
}

// CustomerInfo carries optional customer metadata attached to an event.
type CustomerInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"cpfCnpj"`
}

// MissingFieldError names the required payload field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

var ErrInvalidPayload = errors.New("invalid_payload")

// ParsePayload decodes and structurally validates a webhook body.
func ParsePayload(raw []byte) (*WebhookPayload, error) {
	if !json.Valid(raw) {
		return nil, ErrInvalidPayload
	}

	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(payload.Event) == "" {
		return nil, &MissingFieldError{Field: "event"}
	}
	if payload.Payment == nil {
		return nil, &MissingFieldError{Field: "payment"}
	}
	if strings.TrimSpace(payload.Payment.ID) == "" {
		return nil, &MissingFieldError{Field: "payment.id"}
	}
	return &payload, nil
}

// parseGatewayDate accepts the gateway's date-only and timestamp formats.
func parseGatewayDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}
