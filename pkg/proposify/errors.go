package proposify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the single error type surfaced for any failed provider call:
// non-2xx responses, network failures and undecodable bodies alike.
// StatusCode is zero when no response was received.
type APIError struct {
	StatusCode int    `json:"status_code"       yaml:"status_code"`
	Message    string `json:"message"           yaml:"message"`
	Method     string `json:"method,omitempty"  yaml:"method,omitempty"`
	Path       string `json:"path,omitempty"    yaml:"path,omitempty"`
	Body       string `json:"body,omitempty"    yaml:"body,omitempty"`
	Err        error  `json:"-"                 yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	target := strings.TrimSpace(e.Method + " " + e.Path)

	if e.StatusCode == 0 {
		if target == "" {
			return "proposify request failed: " + e.Message
		}

		return fmt.Sprintf("proposify request %s failed: %s", target, e.Message)
	}

	if target == "" {
		return fmt.Sprintf("proposify API error: %s (status: %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("proposify API error on %s: %s (status: %d)", target, e.Message, e.StatusCode)
}

// Unwrap returns the underlying transport or decoding error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsClientError reports a 4xx response.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// IsServerError reports a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// errorBody covers the shapes the provider uses for error payloads.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  []json.RawMessage `json:"errors"`
}

// NewResponseError builds an APIError from a non-2xx response body.
func NewResponseError(statusCode int, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    messageFromBody(statusCode, body),
		Body:       string(body),
	}
}

// NewTransportError wraps a failure that happened before a usable response existed.
func NewTransportError(err error) *APIError {
	return &APIError{
		Message: err.Error(),
		Err:     err,
	}
}

func messageFromBody(statusCode int, body []byte) string {
	var parsed errorBody

	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		case len(parsed.Errors) > 0:
			var first string
			if json.Unmarshal(parsed.Errors[0], &first) == nil {
				return first
			}

			return string(parsed.Errors[0])
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}

	return "unknown error"
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrAPIKeyRequired       = errors.New("API key is required")
	ErrUnsupportedMethod    = errors.New("unsupported HTTP method")
	ErrUnknownEvent         = errors.New("unknown webhook event")
	ErrNoCredentials        = errors.New("no credential provider configured")
	ErrWebhookNotRegistered = errors.New("provider did not return a webhook id")
)

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// IsNotFound checks if the error is a 404 from the provider.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)

	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 from the provider.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)

	return ok && apiErr.StatusCode == http.StatusUnauthorized
}
