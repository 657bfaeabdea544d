// Package providertest provides a scripted core.Provider for tests of the
// packages built on top of the provider contract.
package providertest

import (
	"context"
	"strings"
	"sync"

	"github.com/petal-labs/chatgate/core"
)

// Provider is a deterministic in-memory backend. Chat returns the
// concatenation of Fragments; StreamChat emits them one by one.
type Provider struct {
	Name      string
	Model     string
	Fragments []string
	Available bool

	// ChatErr and SetupErr fail Chat and StreamChat before any output.
	ChatErr  error
	SetupErr error

	// StreamErr, when set, is reported after the fragments are emitted.
	StreamErr error

	// Block makes StreamChat emit the fragments and then wait for the
	// request context to end.
	Block bool

	mu       sync.Mutex
	requests []*core.ChatRequest
	released chan struct{}
}

// New returns an available provider answering with fragments.
func New(name string, fragments ...string) *Provider {
	return &Provider{
		Name:      name,
		Model:     name + "-default",
		Fragments: fragments,
		Available: true,
	}
}

// Constructor adapts p to the registry constructor signature.
func (p *Provider) Constructor() func(core.ProviderConfig) (core.Provider, error) {
	return func(core.ProviderConfig) (core.Provider, error) {
		return p, nil
	}
}

func (p *Provider) ID() string { return p.Name }

func (p *Provider) DefaultModel() string { return p.Model }

func (p *Provider) IsAvailable(context.Context) bool { return p.Available }

// Answer is the text Chat returns.
func (p *Provider) Answer() string {
	return strings.Join(p.Fragments, "")
}

func (p *Provider) Chat(_ context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	p.record(req)
	if p.ChatErr != nil {
		return nil, p.ChatErr
	}
	return &core.ChatResponse{Model: req.Model, Output: p.Answer()}, nil
}

func (p *Provider) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	p.record(req)
	if p.SetupErr != nil {
		return nil, p.SetupErr
	}

	released := make(chan struct{})
	p.mu.Lock()
	p.released = released
	p.mu.Unlock()

	w, stream := core.NewStreamWriter(0)
	go func() {
		defer close(released)
		for _, f := range p.Fragments {
			if !w.Send(ctx, f) {
				w.Close(ctx.Err())
				return
			}
		}
		if p.Block {
			<-ctx.Done()
			w.Close(ctx.Err())
			return
		}
		w.Close(p.StreamErr)
	}()
	return stream, nil
}

// Released is closed once the most recent stream's producer has exited.
func (p *Provider) Released() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// Requests returns the requests received so far.
func (p *Provider) Requests() []*core.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*core.ChatRequest(nil), p.requests...)
}

// LastRequest returns the most recent request, or nil.
func (p *Provider) LastRequest() *core.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return nil
	}
	return p.requests[len(p.requests)-1]
}

func (p *Provider) record(req *core.ChatRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
}

var _ core.Provider = (*Provider)(nil)
