// Package gemini provides a Google Gemini API provider implementation.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/petal-labs/chatgate/core"
)

const (
	// DefaultAPIKeyEnvVar is the environment variable name for the Gemini API key.
	DefaultAPIKeyEnvVar = "GEMINI_API_KEY"

	// DefaultModelEnvVar overrides DefaultModel.
	DefaultModelEnvVar = "GEMINI_MODEL"
)

const providerID = "gemini"

// Gemini is a chat backend implementation for the Google Gemini API.
// Gemini is safe for concurrent use.
type Gemini struct {
	config Config

	clientOnce sync.Once
	client     *http.Client
}

// New creates a new Gemini provider with the given API key and options.
func New(apiKey string, opts ...Option) *Gemini {
	cfg := Config{
		APIKey:       core.NewSecret(apiKey),
		BaseURL:      DefaultBaseURL,
		DefaultModel: DefaultModel,
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Gemini{config: cfg}
}

// NewFromConfig creates a provider from explicit configuration. The key
// falls back to GEMINI_API_KEY and the default model to GEMINI_MODEL.
func NewFromConfig(pc core.ProviderConfig) (*Gemini, error) {
	key := core.ResolveSecret(pc.APIKey, DefaultAPIKeyEnvVar)
	if key.IsEmpty() {
		return nil, core.MissingCredential(providerID, DefaultAPIKeyEnvVar)
	}

	opts := []Option{
		WithBaseURL(core.Resolve(pc.BaseURL, "", DefaultBaseURL)),
		WithDefaultModel(core.Resolve(pc.DefaultModel, DefaultModelEnvVar, DefaultModel)),
		WithHTTPClient(pc.HTTPClient),
		WithTimeout(pc.Timeout),
	}
	for name, values := range pc.Headers {
		for _, v := range values {
			opts = append(opts, WithHeader(name, v))
		}
	}
	return New(key.Expose(), opts...), nil
}

// ID returns the provider identifier.
func (p *Gemini) ID() string {
	return providerID
}

func (p *Gemini) DefaultModel() string {
	return p.config.DefaultModel
}

// Chat sends a non-streaming generateContent request.
func (p *Gemini) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streamGenerateContent request.
func (p *Gemini) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// IsAvailable reports whether a key is configured. Probing with a real
// generation would be billed.
func (p *Gemini) IsAvailable(context.Context) bool {
	return !p.config.APIKey.IsEmpty()
}

func (p *Gemini) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		p.client = p.config.HTTPClient
		if p.client == nil {
			p.client = &http.Client{Timeout: p.config.Timeout}
		}
	})
	return p.client
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Gemini) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("x-goog-api-key", p.config.APIKey.Expose())

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

var _ core.Provider = (*Gemini)(nil)
