package proposify

import "time"

// Record is a decoded JSON object as returned by the provider.
type Record = map[string]any

// Method is one of the HTTP verbs the provider API accepts.
type Method string

// Supported methods.
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// Registration is a server-side webhook subscription.
type Registration struct {
	ID     string `json:"id"               yaml:"id"`
	URL    string `json:"url"              yaml:"url"`
	Event  string `json:"event"            yaml:"event"`
	Active bool   `json:"active"           yaml:"active"`
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// RegistrationRequest is the body posted to create a registration.
type RegistrationRequest struct {
	URL    string `json:"url"`
	Event  string `json:"event"`
	Active bool   `json:"active"`
	Secret string `json:"secret,omitempty"`
}

// RateLimit is the provider's rate limit state read from response headers.
type RateLimit struct {
	Remaining int           `json:"remaining" yaml:"remaining"`
	ResetIn   time.Duration `json:"reset_in"  yaml:"reset_in"`
}

// Binary is a downloaded file attached to an output item.
type Binary struct {
	Data     []byte `json:"-"         yaml:"-"`
	FileName string `json:"file_name" yaml:"file_name"`
	MimeType string `json:"mime_type" yaml:"mime_type"`
}
