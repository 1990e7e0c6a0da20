package http

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// ParseRateLimit reads the provider's rate limit headers, falling back to
// 100 remaining calls and a 60 second window when they are absent or invalid.
func ParseRateLimit(headers nethttp.Header) proposify.RateLimit {
	limit := proposify.RateLimit{
		Remaining: constants.DefaultRateLimitRemaining,
		ResetIn:   constants.DefaultRateLimitReset,
	}

	if remaining, err := strconv.Atoi(headers.Get(constants.HeaderRateLimitRemaining)); err == nil {
		limit.Remaining = remaining
	}

	if reset, err := strconv.Atoi(headers.Get(constants.HeaderRateLimitReset)); err == nil {
		limit.ResetIn = time.Duration(reset) * time.Second
	}

	return limit
}
