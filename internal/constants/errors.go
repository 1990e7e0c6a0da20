package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIKey        = errors.New("no API key configured, use 'proposify login' or set PROPOSIFY_API_KEY")
	ErrNoWebhookURL    = errors.New("no webhook URL configured, use --url or set webhook_url")
	ErrUnknownConfig   = errors.New("unknown configuration key")
	ErrInvalidParam    = errors.New("invalid parameter, expected key=value")
	ErrInvalidItems    = errors.New("items file must contain a JSON object or an array of objects")
	ErrInvalidOutput   = errors.New("invalid output format, expected json, yaml or table")
	ErrEmptyAPIKey     = errors.New("API key must not be empty")
	ErrNoSinkAvailable = errors.New("no event sink configured")
)
