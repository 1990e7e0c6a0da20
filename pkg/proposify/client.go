package proposify

import (
	"context"
	"time"
)

// RequestClient issues single authenticated calls against the provider API.
type RequestClient interface {
	Request(ctx context.Context, method Method, path string, body, query Record) (Record, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

// Client adds the pagination aggregator on top of RequestClient.
type Client interface {
	RequestClient
	FetchAll(ctx context.Context, method Method, path string, body, query Record) ([]Record, error)
}

// CredentialProvider supplies the API key for each outgoing call. It is owned
// by the host environment; clients read it per request and never store it.
type CredentialProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// Authentication: Credentials takes precedence over APIKey. One of the two is
// required; a static APIKey is wrapped in a provider that returns it as is.
//
// Retries are disabled by default: failures propagate to the caller on the
// first attempt. Setting RetryMax > 0 opts in to retries on connection errors,
// 429 and 5xx responses.
type Config struct {
	// BaseURL overrides the provider endpoint. Defaults to
	// https://api.proposify.com/v1. A trailing slash is trimmed and
	// "https://" is added when no scheme is present.
	BaseURL string

	// APIKey is sent as a Bearer token.
	APIKey string
	// Credentials supplies the API key per call.
	Credentials CredentialProvider

	// HTTPTimeout bounds each HTTP attempt. Zero keeps the transport default.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
