package pfclient

import (
	"context"
	"strings"

	"github.com/fivetwenty-io/proposify/internal/auth"
	"github.com/fivetwenty-io/proposify/internal/client"
	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/http"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// New creates a Proposify client from config. The config's BaseURL is
// normalized in place.
func New(_ context.Context, config *proposify.Config) (proposify.Client, error) {
	if config == nil {
		return nil, proposify.ErrConfigRequired
	}

	credentials := config.Credentials
	if credentials == nil {
		if config.APIKey == "" {
			return nil, proposify.ErrAPIKeyRequired
		}

		credentials = auth.NewStaticCredential(config.APIKey)
	}

	config.BaseURL = normalizeBaseURL(config.BaseURL)

	opts := []http.Option{
		http.WithDebug(config.Debug),
	}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin == 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax == 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return client.New(http.NewClient(config.BaseURL, credentials, opts...), config.Logger), nil
}

func normalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}
