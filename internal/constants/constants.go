package constants

import "time"

// Provider endpoint.
const (
	// DefaultBaseURL is the version-prefixed Proposify API root.
	DefaultBaseURL = "https://api.proposify.com/v1"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "proposify-go/1.0"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and state files.
	ConfigFilePerm = 0600

	// DownloadFilePerm is the permission for downloaded documents.
	DownloadFilePerm = 0640
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as health checks.
	ShortHTTPTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the webhook receiver.
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout protects the webhook receiver from slow clients.
	ReadHeaderTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled unless explicitly configured.
const (
	// DefaultRetryMax is used when a caller enables retries without a count.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination.
const (
	// PageSize is the fixed number of records requested per page.
	PageSize = 50

	// FirstPage is the 1-based index of the first page.
	FirstPage = 1

	// QueryPage and QueryLimit are the pagination query parameter names.
	QueryPage  = "page"
	QueryLimit = "limit"

	// DataField holds the record list in list responses.
	DataField = "data"
)

// Rate limit headers and their defaults when absent.
const (
	HeaderRateLimitRemaining = "X-Ratelimit-Remaining"
	HeaderRateLimitReset     = "X-Ratelimit-Reset"

	DefaultRateLimitRemaining = 100
	DefaultRateLimitReset     = 60 * time.Second
)

// Webhooks.
const (
	// SignatureHeader carries the hex HMAC-SHA256 of the raw delivery body.
	SignatureHeader = "X-Proposify-Signature"

	// CurrentUserPath identifies the key owner; login uses it to verify a key.
	CurrentUserPath = "/users/me"

	// WebhooksPath is the registration collection endpoint.
	WebhooksPath = "/webhooks"

	// DefaultWebhookPath is where the receiver listens for deliveries.
	DefaultWebhookPath = "/webhook"

	// MaxDeliveryBodyBytes caps inbound delivery bodies.
	MaxDeliveryBodyBytes = 1 << 20
)

// Output formatting.
const (
	// JSONIndentSize is the indent used for JSON and YAML output.
	JSONIndentSize = 2

	// DefaultBinaryProperty names the binary attachment of download results.
	DefaultBinaryProperty = "data"
)

// Receiver defaults.
const (
	DefaultListenAddr   = ":8080"
	DefaultMetricsAddr  = ":9090"
	DefaultNATSSubject  = "proposify.events"
	DefaultStateFile    = "webhook-state.yml"
	DefaultConfigDir    = ".proposify"
	DefaultConfigName   = "config"
	EnvPrefix           = "PROPOSIFY"
	MetricsNamespace    = "proposify"
	WebhookMetricsLabel = "outcome"
)
