package webhook

import (
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"a":1}`)

	tests := []struct {
		name      string
		signature string
		secret    string
		want      bool
	}{
		{name: "no secret accepts anything", signature: "garbage", secret: "", want: true},
		{name: "no secret accepts empty signature", signature: "", secret: "", want: true},
		{name: "matching signature", signature: Sign(payload, "s"), secret: "s", want: true},
		{name: "wrong signature", signature: "00ff", secret: "s", want: false},
		{name: "signed with another secret", signature: Sign(payload, "t"), secret: "s", want: false},
		{name: "empty signature with secret", signature: "", secret: "s", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, Verify(payload, tc.signature, tc.secret))
		})
	}
}

func TestSign_KnownVector(t *testing.T) {
	t.Parallel()

	// RFC 4231 test case 2.
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign([]byte("what do ya want for nothing?"), "Jefe"))
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("EST", -5*3600))
}

//nolint:funlen
func TestHandleDelivery(t *testing.T) {
	t.Parallel()

	body := []byte(`{"event":"proposal.won","timestamp":"2026-01-02T03:04:05Z","data":{"id":"p-1"},"proposal":{"id":"p-1","name":"Renewal"},"fee":null}`)

	t.Run("valid signature", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "s", nil)
		headers := http.Header{}
		headers.Set("x-proposify-signature", Sign(body, "s"))

		result := manager.handleDelivery(body, headers, fixedNow)
		require.True(t, result.Accepted())
		assert.Equal(t, http.StatusOK, result.Status)
		assert.Equal(t, proposify.Record{
			"event":     "proposal.won",
			"timestamp": "2026-01-02T03:04:05Z",
			"data":      map[string]any{"id": "p-1"},
			"proposal":  map[string]any{"id": "p-1", "name": "Renewal"},
		}, result.Event)
	})

	t.Run("invalid signature is rejected", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "s", nil)
		headers := http.Header{}
		headers.Set("X-Proposify-Signature", Sign(body, "other"))

		result := manager.handleDelivery(body, headers, fixedNow)
		assert.False(t, result.Accepted())
		assert.Equal(t, http.StatusUnauthorized, result.Status)
		assert.Equal(t, proposify.Record{"error": "Invalid signature"}, result.Error)
	})

	t.Run("missing header is accepted even with a secret", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "s", nil)

		result := manager.handleDelivery(body, http.Header{}, fixedNow)
		assert.True(t, result.Accepted())
	})

	t.Run("no secret skips verification", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "", nil)
		headers := http.Header{}
		headers.Set("X-Proposify-Signature", "not-a-signature")

		result := manager.handleDelivery(body, headers, fixedNow)
		assert.True(t, result.Accepted())
	})

	t.Run("defaults from configuration and clock", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProspectCreated, "", nil)
		raw := []byte(`{"prospect":{"id":"c-3"},"comment":{"text":"hi"}}`)

		result := manager.handleDelivery(raw, http.Header{}, fixedNow)
		require.True(t, result.Accepted())
		assert.Equal(t, "prospect.created", result.Event["event"])
		assert.Equal(t, "2026-03-14T14:26:53Z", result.Event["timestamp"])
		assert.Equal(t, proposify.Record{
			"prospect": map[string]any{"id": "c-3"},
			"comment":  map[string]any{"text": "hi"},
		}, result.Event["data"])
		assert.Equal(t, map[string]any{"id": "c-3"}, result.Event["prospect"])
		assert.Equal(t, map[string]any{"text": "hi"}, result.Event["comment"])
		assert.NotContains(t, result.Event, "signature")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "", nil)

		result := manager.handleDelivery([]byte(`{"event":`), http.Header{}, fixedNow)
		assert.Equal(t, http.StatusBadRequest, result.Status)
		assert.Nil(t, result.Event)
	})

	t.Run("signature checked before parsing", func(t *testing.T) {
		t.Parallel()

		manager := NewManager(nil, "", proposify.EventProposalWon, "s", nil)
		headers := http.Header{}
		headers.Set("X-Proposify-Signature", "bad")

		result := manager.HandleDelivery([]byte(`not json`), headers)
		assert.Equal(t, http.StatusUnauthorized, result.Status)
	})
}

func TestMemoryStaticData(t *testing.T) {
	t.Parallel()

	data := NewMemoryStaticData("")
	assert.Empty(t, data.WebhookID())

	data.SetWebhookID("wh-1")
	assert.Equal(t, "wh-1", data.WebhookID())

	data.ClearWebhookID()
	assert.Empty(t, data.WebhookID())
}
