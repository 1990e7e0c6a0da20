// Package http is the authenticated transport used by every Proposify call.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// CredentialProvider supplies the bearer token for each request.
type CredentialProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// Logger is satisfied by proposify.Logger.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one call relative to the client's base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client wraps a retryablehttp client with base URL, auth and logging.
type Client struct {
	baseURL     string
	credentials CredentialProvider
	httpClient  *retryablehttp.Client
	logger      Logger
	debug       bool
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response when a logger is set.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries on connection errors, 429 and 5xx.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying standard client, e.g. for tests.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a client for baseURL. Retries are off unless
// WithRetryConfig is given, so a failed call surfaces on the first attempt.
func NewClient(baseURL string, credentials CredentialProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: credentials,
		httpClient:  retryClient,
		userAgent:   constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the request. Non-2xx responses are returned together with a
// *proposify.APIError; transport failures return a nil response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if !proposify.Method(req.Method).Valid() {
		return nil, fmt.Errorf("%w: %s", proposify.ErrUnsupportedMethod, req.Method)
	}

	fullURL, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}

	if req.Body != nil {
		encoded, marshalErr := json.Marshal(req.Body)
		if marshalErr != nil {
			return nil, fmt.Errorf("encoding request body: %w", marshalErr)
		}

		rawBody = bytes.NewReader(encoded)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	err = c.setHeaders(ctx, httpReq, req, rawBody != nil)
	if err != nil {
		return nil, err
	}

	c.logRequest(req.Method, fullURL)

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		apiErr := proposify.NewTransportError(err)
		apiErr.Method = req.Method
		apiErr.Path = req.Path

		c.logFailure(req, apiErr)

		return nil, apiErr
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		apiErr := proposify.NewTransportError(fmt.Errorf("reading response body: %w", err))
		apiErr.StatusCode = httpResp.StatusCode
		apiErr.Method = req.Method
		apiErr.Path = req.Path

		return nil, apiErr
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(req.Method, fullURL, resp, time.Since(start))

	if resp.StatusCode < nethttp.StatusOK || resp.StatusCode >= nethttp.StatusMultipleChoices {
		apiErr := proposify.NewResponseError(resp.StatusCode, respBody)
		apiErr.Method = req.Method
		apiErr.Path = req.Path

		c.logFailure(req, apiErr)

		return resp, apiErr
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	parsed, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(query) > 0 {
		values := parsed.Query()
		for key, vals := range query {
			values[key] = vals
		}

		parsed.RawQuery = values.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, hasBody bool) error {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if hasBody {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.credentials != nil {
		key, err := c.credentials.APIKey(ctx)
		if err != nil {
			return fmt.Errorf("getting API key: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+key)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

func (c *Client) logRequest(method, fullURL string) {
	if c.logger == nil || !c.debug {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})
}

func (c *Client) logResponse(method, fullURL string, resp *Response, elapsed time.Duration) {
	if c.logger == nil || !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method":   method,
		"url":      fullURL,
		"status":   resp.StatusCode,
		"duration": elapsed.String(),
	}

	if resp.Headers.Get(constants.HeaderRateLimitRemaining) != "" {
		limit := ParseRateLimit(resp.Headers)
		fields["ratelimit_remaining"] = limit.Remaining
		fields["ratelimit_reset"] = limit.ResetIn.String()
	}

	c.logger.Debug("HTTP Response", fields)
}

func (c *Client) logFailure(req *Request, apiErr *proposify.APIError) {
	if c.logger == nil {
		return
	}

	c.logger.Warn("HTTP request failed", map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"status": apiErr.StatusCode,
		"error":  apiErr.Message,
	})
}
