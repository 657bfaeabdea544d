package ollama

import (
	"net/http"
	"time"
)

const (
	// DefaultLocalURL is the default URL for local Ollama instances.
	DefaultLocalURL = "http://localhost:11434"

	// DefaultModel is used when neither the request nor the configuration
	// names a model.
	DefaultModel = "llama3"
)

// Config holds the configuration for the Ollama provider.
type Config struct {
	// BaseURL is the base URL for the Ollama API.
	// Defaults to DefaultLocalURL.
	BaseURL string

	DefaultModel string

	// HTTPClient is the HTTP client to use for requests.
	// Built on first use when nil.
	HTTPClient *http.Client

	// Headers contains additional HTTP headers to include in requests.
	Headers http.Header

	// Timeout is the request timeout. Zero means no timeout.
	Timeout time.Duration
}

// Option is a function that configures the Ollama provider.
type Option func(*Config)

// WithBaseURL sets a custom base URL for the Ollama API.
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

// WithHeaders sets additional HTTP headers to include in requests.
func WithHeaders(headers http.Header) Option {
	return func(c *Config) {
		c.Headers = headers
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}
