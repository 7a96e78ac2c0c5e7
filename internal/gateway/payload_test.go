package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"event": "PAYMENT_RECEIVED",
		"payment": {
			"id": "pay_123",
			"customer": "cus_9",
			"value": 150.5,
			"netValue": 147.2,
			"status": "RECEIVED",
			"billingType": "PIX",
			"dueDate": "2026-02-01",
			"customerInfo": {"name": "Ana", "cpfCnpj": "12345678900"}
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "PAYMENT_RECEIVED", payload.Event)
	assert.Equal(t, "pay_123", payload.Payment.ID)
	require.NotNil(t, payload.Payment.NetValue)
	assert.InDelta(t, 147.2, *payload.Payment.NetValue, 0.0001)
	require.NotNil(t, payload.Payment.CustomerInfo)
	assert.Equal(t, "12345678900", payload.Payment.CustomerInfo.Document)
}

func TestParsePayloadNamesMissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing event", `{"payment":{"id":"pay_1"}}`, "event"},
		{"missing payment", `{"event":"PAYMENT_RECEIVED"}`, "payment"},
		{"missing payment id", `{"event":"PAYMENT_RECEIVED","payment":{"value":10}}`, "payment.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.body))
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestParsePayloadInvalidJSON(t *testing.T) {
	_, err := ParsePayload([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
