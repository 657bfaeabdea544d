package anthropic

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/petal-labs/chatgate/core"
)

// DefaultAPIKeyEnvVar is the environment variable name for the Anthropic API key.
const DefaultAPIKeyEnvVar = "ANTHROPIC_API_KEY"

const providerID = "anthropic"

// Anthropic is a chat backend implementation for the Anthropic Messages API.
// Anthropic is safe for concurrent use.
type Anthropic struct {
	config Config

	clientOnce sync.Once
	client     *http.Client
}

// New creates a new Anthropic provider with the given API key and options.
func New(apiKey string, opts ...Option) *Anthropic {
	cfg := Config{
		APIKey:       core.NewSecret(apiKey),
		BaseURL:      DefaultBaseURL,
		DefaultModel: DefaultModel,
		Version:      DefaultVersion,
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Anthropic{config: cfg}
}

// NewFromConfig creates a provider from explicit configuration, falling
// back to ANTHROPIC_API_KEY when no key is configured.
func NewFromConfig(pc core.ProviderConfig) (*Anthropic, error) {
	key := core.ResolveSecret(pc.APIKey, DefaultAPIKeyEnvVar)
	if key.IsEmpty() {
		return nil, core.MissingCredential(providerID, DefaultAPIKeyEnvVar)
	}

	opts := []Option{
		WithBaseURL(core.Resolve(pc.BaseURL, "", DefaultBaseURL)),
		WithDefaultModel(core.Resolve(pc.DefaultModel, "", DefaultModel)),
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
func (p *Anthropic) ID() string {
	return providerID
}

// DefaultModel returns the model used when a request names none.
func (p *Anthropic) DefaultModel() string {
	return p.config.DefaultModel
}

// Chat sends a non-streaming messages request.
func (p *Anthropic) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streaming messages request.
func (p *Anthropic) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// IsAvailable reports whether a key is configured. Anthropic offers no free
// endpoint that validates a key, so nothing is sent.
func (p *Anthropic) IsAvailable(context.Context) bool {
	return !p.config.APIKey.IsEmpty()
}

func (p *Anthropic) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		p.client = p.config.HTTPClient
		if p.client == nil {
			p.client = &http.Client{Timeout: p.config.Timeout}
		}
	})
	return p.client
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Anthropic) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("x-api-key", p.config.APIKey.Expose())
	headers.Set("anthropic-version", p.config.Version)

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Compile-time check that Anthropic implements Provider.
var _ core.Provider = (*Anthropic)(nil)
