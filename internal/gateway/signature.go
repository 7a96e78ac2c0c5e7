package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader is the HTTP header carrying the gateway's HMAC signature.
const SignatureHeader = "Asaas-Signature"

var ErrInvalidSignature = errors.New("invalid_signature")

// VerifySignature checks the hex-encoded HMAC SHA-256 signature of a raw
// webhook body. An empty secret disables verification (the integration has
// no secret configured); an empty signature with a configured secret fails.
func VerifySignature(raw []byte, signature, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
