// Package retrieval augments chat prompts with passages fetched from an
// external context-search service.
//
// The service is consumed only at its HTTP boundary:
//
//	POST {base}/search  {"query": "...", "top_k": 3}
//	  -> {"results": [{"text": "...", "metadata": {"document_id": "...", "title": "..."}}]}
//	GET  {base}/health  -> 200 when ready
//
// Retrieval is advisory. Augmenter never fails a chat request: any problem
// with the service degrades to an unaugmented prompt.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultSearchTimeout bounds a search call.
	DefaultSearchTimeout = 5 * time.Second

	// DefaultHealthTimeout bounds a health probe.
	DefaultHealthTimeout = 2 * time.Second
)

// Failure classes returned by Client.Search.
var (
	ErrTimeout     = errors.New("retrieval service timed out")
	ErrUnavailable = errors.New("could not connect to retrieval service")
	ErrStatus      = errors.New("retrieval service returned non-200 status")
	ErrDecode      = errors.New("invalid retrieval response")
)

// StatusError carries the unexpected status code of a search call.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retrieval service returned status %d", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Passage is one retrieved context chunk.
type Passage struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes the document a passage came from.
type Metadata struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

func (m *Metadata) applyDefaults() {
	if m.Title == "" {
		m.Title = "Untitled"
	}
	if m.DocumentID == "" {
		m.DocumentID = "unknown"
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []Passage `json:"results"`
}

// Client talks to the retrieval service. Client is safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	searchTimeout time.Duration
	healthTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSearchTimeout overrides DefaultSearchTimeout.
func WithSearchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.searchTimeout = d
	}
}

// WithHealthTimeout overrides DefaultHealthTimeout.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.healthTimeout = d
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		searchTimeout: DefaultSearchTimeout,
		healthTimeout: DefaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search returns up to topK passages relevant to query.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, classify(ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for i := range out.Results {
		out.Results[i].Metadata.applyDefaults()
	}
	return out.Results, nil
}

// Health reports whether GET {base}/health answers 200 within the health
// timeout.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// classify maps transport failures onto ErrTimeout or ErrUnavailable.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
