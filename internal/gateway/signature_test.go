package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"PAYMENT_RECEIVED"}`)

	require.NoError(t, VerifySignature(body, sign(body, "secret"), "secret"))
	assert.ErrorIs(t, VerifySignature(body, sign(body, "wrong"), "secret"), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(body, "", "secret"), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature([]byte("tampered"), sign(body, "secret"), "secret"), ErrInvalidSignature)
}

func TestVerifySignatureNoSecretConfigured(t *testing.T) {
	// With no secret the check is disabled entirely.
	assert.NoError(t, VerifySignature([]byte("anything"), "", ""))
	assert.NoError(t, VerifySignature([]byte("anything"), "garbage", ""))
}

func TestVerifySignatureCaseInsensitiveHex(t *testing.T) {
	body := []byte(`{}`)
	upper := sign(body, "secret")
	for i, ch := range upper {
		if ch >= 'a' && ch <= 'f' {
			upper = upper[:i] + string(ch-32) + upper[i+1:]
		}
	}
	assert.NoError(t, VerifySignature(body, upper, "secret"))
}
