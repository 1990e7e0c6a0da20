// Package client implements the Proposify request client and the pagination
// aggregator on top of the authenticated transport.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/http"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// Client implements proposify.Client.
type Client struct {
	httpClient *http.Client
	logger     proposify.Logger

	mu        sync.Mutex
	rateLimit proposify.RateLimit
}

// New wraps an authenticated transport.
func New(httpClient *http.Client, logger proposify.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		rateLimit:  http.ParseRateLimit(nil),
	}
}

// RateLimit returns the rate limit state reported by the most recent
// response, or the defaults before any call.
func (c *Client) RateLimit() proposify.RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rateLimit
}

func (c *Client) trackRateLimit(resp *http.Response) {
	if resp == nil || resp.Headers.Get(constants.HeaderRateLimitRemaining) == "" {
		return
	}

	c.mu.Lock()
	c.rateLimit = http.ParseRateLimit(resp.Headers)
	c.mu.Unlock()
}

// Request issues one call and decodes the JSON response. Empty body and
// query maps are not attached. Every failure is returned as *proposify.APIError.
// A response that is valid JSON but not an object is wrapped by asRecord.
func (c *Client) Request(ctx context.Context, method proposify.Method, path string, body, query proposify.Record) (proposify.Record, error) {
	req := &http.Request{
		Method: string(method),
		Path:   path,
	}

	if len(body) > 0 {
		req.Body = body
	}

	if len(query) > 0 {
		req.Query = encodeQuery(query)
	}

	resp, err := c.httpClient.Do(ctx, req)
	c.trackRateLimit(resp)

	if err != nil {
		return nil, asAPIError(err, method, path)
	}

	if len(resp.Body) == 0 {
		return proposify.Record{}, nil
	}

	var decoded any

	err = json.Unmarshal(resp.Body, &decoded)
	if err != nil {
		apiErr := proposify.NewTransportError(fmt.Errorf("parsing response: %w", err))
		apiErr.StatusCode = resp.StatusCode
		apiErr.Method = string(method)
		apiErr.Path = path

		return nil, apiErr
	}

	return asRecord(decoded), nil
}

// asRecord keeps JSON objects as they are. Any other top-level value (a bare
// array or scalar) is returned under "data"; null becomes an empty record.
func asRecord(decoded any) proposify.Record {
	switch v := decoded.(type) {
	case nil:
		return proposify.Record{}
	case map[string]any:
		return v
	default:
		return proposify.Record{constants.DataField: v}
	}
}

// Download fetches a binary export (PDF, CSV) without decoding it.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:  string(proposify.MethodGet),
		Path:    path,
		Headers: map[string]string{"Accept": "*/*"},
	})
	c.trackRateLimit(resp)

	if err != nil {
		return nil, asAPIError(err, proposify.MethodGet, path)
	}

	return resp.Body, nil
}

// asAPIError makes sure callers only ever see *proposify.APIError.
func asAPIError(err error, method proposify.Method, path string) error {
	if _, ok := proposify.AsAPIError(err); ok {
		return err
	}

	apiErr := proposify.NewTransportError(err)
	apiErr.Method = string(method)
	apiErr.Path = path

	return apiErr
}

// encodeQuery flattens a parameter record into query values. Lists become
// repeated keys, everything else its plain string form.
func encodeQuery(query proposify.Record) url.Values {
	values := make(url.Values, len(query))

	for key, value := range query {
		switch typed := value.(type) {
		case nil:
			continue
		case []string:
			values[key] = append(values[key], typed...)
		case []any:
			for _, item := range typed {
				values.Add(key, formatScalar(item))
			}
		default:
			values.Set(key, formatScalar(typed))
		}
	}

	return values
}

func formatScalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}
