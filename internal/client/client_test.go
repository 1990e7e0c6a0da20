package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Request(t *testing.T) {
	t.Parallel()

	t.Run("decodes the JSON response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/proposals/p-1", r.URL.Path)
			assert.Equal(t, "GET", r.Method)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p-1", "status": "sent", "value": 1200.5})
		}))
		defer server.Close()

		result, err := NewTestClient(server.URL).Request(context.Background(), proposify.MethodGet, "/proposals/p-1", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "p-1", result["id"])
		assert.Equal(t, "sent", result["status"])
		assert.InDelta(t, 1200.5, result["value"], 0.001)
	})

	t.Run("omits empty body and query", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Empty(t, body)
			assert.Empty(t, r.URL.RawQuery)
			assert.Empty(t, r.Header.Get("Content-Type"))

			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		result, err := NewTestClient(server.URL).Request(
			context.Background(), proposify.MethodPost, "/proposals/p-1/archive",
			proposify.Record{}, proposify.Record{},
		)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("attaches non-empty body and query", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any

			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Q3 renewal", body["name"])
			assert.Equal(t, "t-9", body["template_id"])

			assert.Equal(t, "true", r.URL.Query().Get("notify"))
			assert.Equal(t, "25", r.URL.Query().Get("limit"))
			assert.Equal(t, []string{"a", "b"}, r.URL.Query()["tags"])

			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p-2"})
		}))
		defer server.Close()

		result, err := NewTestClient(server.URL).Request(
			context.Background(), proposify.MethodPost, "/proposals",
			proposify.Record{"name": "Q3 renewal", "template_id": "t-9"},
			proposify.Record{"notify": true, "limit": 25, "tags": []any{"a", "b"}, "skip": nil},
		)
		require.NoError(t, err)
		assert.Equal(t, "p-2", result["id"])
	})

	t.Run("wraps error responses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": []string{"name is required"}})
		}))
		defer server.Close()

		_, err := NewTestClient(server.URL).Request(context.Background(), proposify.MethodPost, "/prospects", proposify.Record{"x": 1}, nil)
		require.Error(t, err)

		apiErr, ok := proposify.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "name is required", apiErr.Message)
		assert.Equal(t, "POST", apiErr.Method)
	})

	t.Run("malformed JSON is an API error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		_, err := NewTestClient(server.URL).Request(context.Background(), proposify.MethodGet, "/users/me", nil, nil)
		require.Error(t, err)

		apiErr, ok := proposify.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusOK, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "parsing response")
	})

	t.Run("non-object JSON is wrapped under data", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			body string
			want proposify.Record
		}{
			{body: `[{"id":"t-1"},{"id":"t-2"}]`, want: proposify.Record{"data": []any{map[string]any{"id": "t-1"}, map[string]any{"id": "t-2"}}}},
			{body: `"queued"`, want: proposify.Record{"data": "queued"}},
			{body: `42`, want: proposify.Record{"data": 42.0}},
			{body: `null`, want: proposify.Record{}},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))

			got, err := NewTestClient(server.URL).Request(context.Background(), proposify.MethodGet, "/templates", nil, nil)
			server.Close()

			require.NoError(t, err, tt.body)
			assert.Equal(t, tt.want, got, tt.body)
		}
	})

	t.Run("unsupported method is an API error", func(t *testing.T) {
		t.Parallel()

		_, err := NewTestClient("http://127.0.0.1:1").Request(context.Background(), proposify.Method("PATCH"), "/x", nil, nil)
		require.ErrorIs(t, err, proposify.ErrUnsupportedMethod)

		_, ok := proposify.AsAPIError(err)
		assert.True(t, ok)
	})
}

func TestClient_Download(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.7\x00\x01binary")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/proposals/p-1/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(pdf)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	data, err := client.Download(context.Background(), "/proposals/p-1/pdf")
	require.NoError(t, err)
	assert.Equal(t, pdf, data)

	_, err = client.Download(context.Background(), "/proposals/p-2/pdf")
	require.Error(t, err)

	apiErr, ok := proposify.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Forbidden", apiErr.Message)
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	values := encodeQuery(proposify.Record{
		"status":  "sent,won",
		"page":    2,
		"ratio":   0.5,
		"active":  false,
		"ids":     []string{"1", "2"},
		"missing": nil,
	})

	assert.Equal(t, "sent,won", values.Get("status"))
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "0.5", values.Get("ratio"))
	assert.Equal(t, "false", values.Get("active"))
	assert.Equal(t, []string{"1", "2"}, values["ids"])
	assert.NotContains(t, values, "missing")
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/limited" {
			w.Header().Set("X-RateLimit-Remaining", "7")
			w.Header().Set("X-RateLimit-Reset", "12")
		}

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)
	assert.Equal(t, proposify.RateLimit{Remaining: 100, ResetIn: time.Minute}, client.RateLimit())

	_, err := client.Request(context.Background(), proposify.MethodGet, "/limited", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, proposify.RateLimit{Remaining: 7, ResetIn: 12 * time.Second}, client.RateLimit())

	_, err = client.Request(context.Background(), proposify.MethodGet, "/plain", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, client.RateLimit().Remaining)
}
