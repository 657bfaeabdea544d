package ollama

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/petal-labs/chatgate/core"
)

// BaseURLEnvVar names the environment variable holding the server address.
const BaseURLEnvVar = "OLLAMA_BASE_URL"

const providerID = "ollama"

// Ollama is a chat backend implementation for the Ollama API.
// Ollama is safe for concurrent use.
type Ollama struct {
	config Config

	clientOnce sync.Once
	client     *http.Client
}

// New creates a new Ollama provider with the given options.
func New(opts ...Option) *Ollama {
	cfg := Config{
		BaseURL:      DefaultLocalURL,
		DefaultModel: DefaultModel,
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Ollama{config: cfg}
}

// NewFromConfig creates a provider from explicit configuration. Ollama
// needs no credential, so construction never fails for a well-formed
// address.
func NewFromConfig(pc core.ProviderConfig) (*Ollama, error) {
	base := core.Resolve(pc.BaseURL, BaseURLEnvVar, DefaultLocalURL)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, &core.ConfigError{
			Provider: providerID,
			Message:  "base URL must start with http:// or https://, got " + base,
		}
	}

	return New(
		WithBaseURL(base),
		WithDefaultModel(core.Resolve(pc.DefaultModel, "", DefaultModel)),
		WithHTTPClient(pc.HTTPClient),
		WithHeaders(pc.Headers),
		WithTimeout(pc.Timeout),
	), nil
}

// ID returns the provider identifier.
func (p *Ollama) ID() string {
	return providerID
}

// DefaultModel returns the model used when a request names none.
func (p *Ollama) DefaultModel() string {
	return p.config.DefaultModel
}

// Chat sends a non-streaming chat request.
func (p *Ollama) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streaming chat request.
func (p *Ollama) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// IsAvailable reports whether the server answers GET /api/tags.
func (p *Ollama) IsAvailable(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+tagsPath, nil)
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

func (p *Ollama) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		p.client = p.config.HTTPClient
		if p.client == nil {
			p.client = &http.Client{Timeout: p.config.Timeout}
		}
	})
	return p.client
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Ollama) buildHeaders() http.Header {
	headers := make(http.Header)
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	return headers
}

var _ core.Provider = (*Ollama)(nil)
