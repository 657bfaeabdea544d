package anthropic

import (
	"net/http"
	"time"

	"github.com/petal-labs/chatgate/core"
)

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.anthropic.com
	BaseURL string

	// DefaultModel is used when a request names no model.
	DefaultModel string

	// HTTPClient is the HTTP client to use. Built on first use when nil.
	HTTPClient *http.Client

	// Version is the Anthropic API version. Defaults to 2023-06-01.
	Version string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout is the optional request timeout.
	Timeout time.Duration
}

const (
	// DefaultBaseURL is the default Anthropic API base URL.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultVersion is the default Anthropic API version.
	DefaultVersion = "2023-06-01"

	// DefaultModel is the model used when neither the request nor the
	// configuration names one.
	DefaultModel = "claude-3-5-sonnet-20241022"
)

// Option configures the Anthropic provider.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithDefaultModel overrides DefaultModel.
func WithDefaultModel(model string) Option {
	return func(c *Config) {
		c.DefaultModel = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithVersion sets the Anthropic API version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}
