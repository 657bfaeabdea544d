package openai

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/petal-labs/chatgate/core"
)

// DefaultAPIKeyEnvVar is the environment variable name for the OpenAI API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

const providerID = "openai"

// OpenAI is a chat backend implementation for the OpenAI Chat Completions API.
// OpenAI is safe for concurrent use.
type OpenAI struct {
	config Config

	clientOnce sync.Once
	client     *http.Client
}

// New creates a new OpenAI provider with the given API key and options.
func New(apiKey string, opts ...Option) *OpenAI {
	cfg := Config{
		APIKey:       core.NewSecret(apiKey),
		BaseURL:      DefaultBaseURL,
		DefaultModel: DefaultModel,
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &OpenAI{config: cfg}
}

// NewFromConfig creates a provider from explicit configuration, falling
// back to OPENAI_API_KEY when no key is configured.
func NewFromConfig(pc core.ProviderConfig) (*OpenAI, error) {
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

// NewFromEnv creates a new OpenAI provider using the OPENAI_API_KEY environment variable.
func NewFromEnv(opts ...Option) (*OpenAI, error) {
	p, err := NewFromConfig(core.ProviderConfig{})
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&p.config)
	}
	return p, nil
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return providerID
}

// DefaultModel returns the model used when a request names none.
func (p *OpenAI) DefaultModel() string {
	return p.config.DefaultModel
}

// Chat sends a non-streaming chat completion request.
func (p *OpenAI) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streaming chat completion request.
func (p *OpenAI) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// IsAvailable lists models with the configured key. Listing models is not
// billed, so it doubles as a credential check.
func (p *OpenAI) IsAvailable(ctx context.Context) bool {
	if p.config.APIKey.IsEmpty() {
		return false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+modelsPath, nil)
	if err != nil {
		return false
	}
	httpReq.Header = p.buildHeaders()

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (p *OpenAI) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		p.client = p.config.HTTPClient
		if p.client == nil {
			p.client = &http.Client{Timeout: p.config.Timeout}
		}
	})
	return p.client
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *OpenAI) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())

	if p.config.OrgID != "" {
		headers.Set("OpenAI-Organization", p.config.OrgID)
	}

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Compile-time check that OpenAI implements Provider.
var _ core.Provider = (*OpenAI)(nil)
