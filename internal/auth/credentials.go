package auth

import (
	"context"
	"errors"
)

// Static errors for err113 compliance.
var (
	ErrNoAPIKey = errors.New("no API key available")
)

// StaticCredential returns a fixed API key.
type StaticCredential struct {
	key string
}

// NewStaticCredential creates a provider for a key known up front.
func NewStaticCredential(key string) *StaticCredential {
	return &StaticCredential{key: key}
}

// APIKey implements proposify.CredentialProvider.
func (c *StaticCredential) APIKey(ctx context.Context) (string, error) {
	if c.key == "" {
		return "", ErrNoAPIKey
	}

	return c.key, nil
}
