package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signatureHex against the raw payload. With no secret
// configured every payload is accepted.
func Verify(payload []byte, signatureHex, secret string) bool {
	if secret == "" {
		return true
	}

	return hmac.Equal([]byte(Sign(payload, secret)), []byte(signatureHex))
}
