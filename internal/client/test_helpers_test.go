package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	pfhttp "github.com/fivetwenty-io/proposify/internal/http"
	"github.com/stretchr/testify/assert"
)

// NewTestClient creates a client without credentials against baseURL.
func NewTestClient(baseURL string) *Client {
	return New(pfhttp.NewClient(baseURL, nil), nil)
}

// pagedServer serves list pages with the given record counts. Requests past
// the last page get an empty data list. Each request's query is recorded.
type pagedServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries []map[string]string
}

func newPagedServer(t *testing.T, counts ...int) *pagedServer {
	t.Helper()

	ps := &pagedServer{}

	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		recorded := map[string]string{}
		for key := range r.URL.Query() {
			recorded[key] = r.URL.Query().Get(key)
		}

		ps.mu.Lock()
		ps.queries = append(ps.queries, recorded)
		ps.mu.Unlock()

		data := []map[string]any{}

		if page-1 < len(counts) {
			for i := range counts[page-1] {
				data = append(data, map[string]any{"id": strconv.Itoa(page) + "-" + strconv.Itoa(i)})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))

	t.Cleanup(ps.Close)

	return ps
}

func (ps *pagedServer) calls() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return len(ps.queries)
}
