// Package gateway routes chat requests to a provider, optionally augmenting
// them with retrieved context, and shapes the answer for transport.
//
// Each request moves through
//
//	received -> provider_resolved -> augmented | skipped -> dispatched -> completed | failed
//
// and every transition is logged at debug level.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/petal-labs/chatgate/core"
)

// Resolver looks up providers by name. *providers.Registry implements it.
type Resolver interface {
	Get(name string) (core.Provider, error)
}

// Augmenter produces a context block for a query. *retrieval.Augmenter
// implements it.
type Augmenter interface {
	Augment(ctx context.Context, query string, topK int) string
}

// PromptBuilder merges retrieved context into a message.
type PromptBuilder func(message, retrieved string) string

// Dispatcher executes chat requests. Dispatcher is safe for concurrent use.
type Dispatcher struct {
	providers       Resolver
	augmenter       Augmenter
	buildPrompt     PromptBuilder
	defaultProvider string
	topK            int
	callTimeout     time.Duration
	logger          *slog.Logger
	telemetry       core.TelemetryHook
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAugmenter enables retrieval for requests with UseRAG set. build merges
// the retrieved block into the message.
func WithAugmenter(a Augmenter, build PromptBuilder) Option {
	return func(d *Dispatcher) {
		d.augmenter = a
		d.buildPrompt = build
	}
}

// WithTopK sets how many passages are requested per query. Default 3.
func WithTopK(k int) Option {
	return func(d *Dispatcher) {
		d.topK = k
	}
}

// WithDefaultProvider sets the provider used when a request names none.
func WithDefaultProvider(name string) Option {
	return func(d *Dispatcher) {
		d.defaultProvider = name
	}
}

// WithCallTimeout bounds each backend call. Zero, the default, leaves calls
// bounded only by the request context.
func WithCallTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		d.callTimeout = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithTelemetry replaces the default log-based telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(d *Dispatcher) {
		d.telemetry = h
	}
}

// New creates a Dispatcher over providers.
func New(providers Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		providers:       providers,
		defaultProvider: DefaultProvider,
		topK:            3,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "dispatcher")
	if d.telemetry == nil {
		d.telemetry = core.LogTelemetryHook{Logger: d.logger}
	}
	return d
}

// DefaultProvider returns the provider used for requests that name none.
func (d *Dispatcher) DefaultProvider() string {
	return d.defaultProvider
}

// prepared is a request that has been resolved and augmented.
type prepared struct {
	provider  core.Provider
	name      string
	model     string
	prompt    string
	augmented bool
	params    core.Params
	log       *slog.Logger
}

func (d *Dispatcher) prepare(ctx context.Context, req ChatRequest, streaming bool) (*prepared, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := req.Provider
	if name == "" {
		name = d.defaultProvider
	}

	log := d.logger.With("provider", name, "streaming", streaming)
	log.Info("chat request", "message", preview(req.Message, 50), "use_rag", req.UseRAG)
	log.Debug("state", "state", "received")

	p, err := d.providers.Get(name)
	if err != nil {
		log.Debug("state", "state", "failed", "error", err)
		return nil, &RequestError{Err: err}
	}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}
	log = log.With("model", model)
	log.Debug("state", "state", "provider_resolved")

	prompt := req.Message
	augmented := false
	if req.UseRAG && d.augmenter != nil {
		if retrieved := d.augmenter.Augment(ctx, req.Message, d.topK); retrieved != "" {
			prompt = d.buildPrompt(req.Message, retrieved)
			augmented = true
		}
		log.Debug("state", "state", "augmented", "context_found", augmented)
	} else {
		log.Debug("state", "state", "skipped")
	}

	return &prepared{
		provider:  p,
		name:      name,
		model:     model,
		prompt:    prompt,
		augmented: augmented,
		params:    req.Parameters,
		log:       log,
	}, nil
}

func (d *Dispatcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.callTimeout > 0 {
		return context.WithTimeout(ctx, d.callTimeout)
	}
	return context.WithCancel(ctx)
}

// Chat answers req in one shot.
func (d *Dispatcher) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	pr, err := d.prepare(ctx, req, false)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := d.callContext(ctx)
	defer cancel()

	start := time.Now()
	d.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: pr.name, Model: pr.model, Augmented: pr.augmented, Start: start,
	})
	pr.log.Debug("state", "state", "dispatched")

	resp, err := pr.provider.Chat(callCtx, core.UserRequest(pr.model, pr.prompt, pr.params))

	end := core.RequestEndEvent{Provider: pr.name, Model: pr.model, Start: start, End: time.Now(), Err: err}
	if resp != nil {
		end.OutputChars = len(resp.Output)
	}
	d.telemetry.OnRequestEnd(end)

	if err != nil {
		pr.log.Debug("state", "state", "failed", "error", err)
		return nil, &CallError{Provider: pr.name, Err: err}
	}
	pr.log.Debug("state", "state", "completed")

	return &ChatResult{
		Prompt:   pr.prompt,
		Response: resp.Output,
		Provider: pr.name,
		Model:    pr.model,
	}, nil
}

// Stream answers req as a sequence of frames. Failures before the first
// fragment are returned directly; later failures end the channel with one
// error frame. Cancelling ctx stops the stream and closes the channel
// without further frames.
func (d *Dispatcher) Stream(ctx context.Context, req ChatRequest) (<-chan Frame, error) {
	pr, err := d.prepare(ctx, req, true)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := d.callContext(ctx)

	start := time.Now()
	d.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: pr.name, Model: pr.model, Streaming: true, Augmented: pr.augmented, Start: start,
	})
	pr.log.Debug("state", "state", "dispatched")

	stream, err := pr.provider.StreamChat(callCtx, core.UserRequest(pr.model, pr.prompt, pr.params))
	if err != nil {
		cancel()
		d.telemetry.OnRequestEnd(core.RequestEndEvent{
			Provider: pr.name, Model: pr.model, Streaming: true, Start: start, End: time.Now(), Err: err,
		})
		pr.log.Debug("state", "state", "failed", "error", err)
		return nil, &CallError{Provider: pr.name, Err: err}
	}

	frames := make(chan Frame)
	go func() {
		defer close(frames)
		defer cancel()

		end := core.RequestEndEvent{Provider: pr.name, Model: pr.model, Streaming: true, Start: start}
		defer func() {
			end.End = time.Now()
			d.telemetry.OnRequestEnd(end)
		}()

		send := func(f Frame) bool {
			select {
			case frames <- f:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				end.Err = ctx.Err()
				pr.log.Debug("state", "state", "failed", "error", ctx.Err())
				return
			case chunk, ok := <-stream.Ch:
				if !ok {
					if err := stream.Wait(); err != nil {
						end.Err = err
						pr.log.Debug("state", "state", "failed", "error", err)
						send(Frame{Error: err.Error()})
						return
					}
					pr.log.Debug("state", "state", "completed")
					return
				}
				end.Fragments++
				end.OutputChars += len(chunk.Delta)
				if !send(Frame{Token: chunk.Delta, Provider: pr.name, Model: pr.model}) {
					end.Err = ctx.Err()
					return
				}
			}
		}
	}()

	return frames, nil
}
