package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll_PageSequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pages     []int
		wantTotal int
		wantCalls int
	}{
		{name: "short final page", pages: []int{50, 50, 13}, wantTotal: 113, wantCalls: 3},
		{name: "exact multiple needs an empty page", pages: []int{50, 0}, wantTotal: 50, wantCalls: 2},
		{name: "single short page", pages: []int{7}, wantTotal: 7, wantCalls: 1},
		{name: "empty first page", pages: []int{0}, wantTotal: 0, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := newPagedServer(t, tc.pages...)

			records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/proposals", nil, nil)
			require.NoError(t, err)
			assert.Len(t, records, tc.wantTotal)
			assert.Equal(t, tc.wantCalls, server.calls())
		})
	}
}

func TestFetchAll_PreservesPageOrder(t *testing.T) {
	t.Parallel()

	server := newPagedServer(t, 50, 2)

	records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/contacts", nil, nil)
	require.NoError(t, err)
	require.Len(t, records, 52)
	assert.Equal(t, "1-0", records[0]["id"])
	assert.Equal(t, "1-49", records[49]["id"])
	assert.Equal(t, "2-1", records[51]["id"])

	for i, query := range server.queries {
		assert.Equal(t, []string{"1", "2"}[i], query["page"])
	}
}

func TestFetchAll_MergesCallerQueryWithoutMutatingIt(t *testing.T) {
	t.Parallel()

	server := newPagedServer(t, 3)

	query := proposify.Record{"status": "won", "limit": 5}

	_, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/proposals", nil, query)
	require.NoError(t, err)

	require.Len(t, server.queries, 1)
	assert.Equal(t, "won", server.queries[0]["status"])
	assert.Equal(t, "50", server.queries[0]["limit"])
	assert.Equal(t, proposify.Record{"status": "won", "limit": 5}, query)
}

func TestFetchAll_MissingDataField(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	}))
	defer server.Close()

	records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/templates", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAll_DataNotAList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "x"}})
	}))
	defer server.Close()

	records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/templates", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchAll_ErrorMidway(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		data := make([]map[string]any, 50)
		for i := range data {
			data[i] = map[string]any{"id": i}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer server.Close()

	records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/sections", nil, nil)
	require.Error(t, err)
	assert.Len(t, records, 50)

	apiErr, ok := proposify.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestFetchAll_CancelledContext(t *testing.T) {
	t.Parallel()

	server := newPagedServer(t, 50, 50, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTestClient(server.URL).FetchAll(ctx, proposify.MethodGet, "/users", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, server.calls())
}

func TestFetchAll_NonObjectEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{"a", map[string]any{"id": "b"}}})
	}))
	defer server.Close()

	records, err := NewTestClient(server.URL).FetchAll(context.Background(), proposify.MethodGet, "/x", nil, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["value"])
	assert.Equal(t, "b", records[1]["id"])
}
