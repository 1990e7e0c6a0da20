package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// Sub-objects copied onto the event record when the delivery carries them.
var passthroughFields = []string{"proposal", "prospect", "signature", "comment", "fee"}

// DeliveryResult is the outcome of one inbound delivery. Exactly one of
// Event and Error is set.
type DeliveryResult struct {
	Status int
	Event  proposify.Record
	Error  proposify.Record
}

// Accepted reports whether the delivery produced an event.
func (r DeliveryResult) Accepted() bool {
	return r.Event != nil
}

// HandleDelivery verifies and decodes one delivery. A signature is only
// checked when a secret is configured and the header is present.
func (m *Manager) HandleDelivery(rawBody []byte, headers http.Header) DeliveryResult {
	return m.handleDelivery(rawBody, headers, time.Now)
}

func (m *Manager) handleDelivery(rawBody []byte, headers http.Header, now func() time.Time) DeliveryResult {
	if m.secret != "" {
		signature := headers.Get(constants.SignatureHeader)
		if signature != "" && !Verify(rawBody, signature, m.secret) {
			m.log("warn", "webhook signature mismatch", nil)

			return reject(http.StatusUnauthorized, "Invalid signature")
		}
	}

	body := proposify.Record{}

	err := json.Unmarshal(rawBody, &body)
	if err != nil {
		return reject(http.StatusBadRequest, "Invalid JSON body")
	}

	event := proposify.Record{
		"event":     firstSet(body["event"], string(m.event)),
		"timestamp": firstSet(body["timestamp"], now().UTC().Format(time.RFC3339)),
		"data":      firstSet(body[constants.DataField], body),
	}

	for _, field := range passthroughFields {
		if isSet(body[field]) {
			event[field] = body[field]
		}
	}

	return DeliveryResult{Status: http.StatusOK, Event: event}
}

func reject(status int, msg string) DeliveryResult {
	return DeliveryResult{Status: status, Error: proposify.Record{"error": msg}}
}

func firstSet(value, fallback any) any {
	if isSet(value) {
		return value
	}

	return fallback
}

// isSet mirrors the provider's loose truthiness: null, false, "" and 0 are
// treated as absent.
func isSet(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	case bool:
		return typed
	case float64:
		return typed != 0
	default:
		return true
	}
}
