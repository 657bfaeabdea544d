package core

import "context"

// Provider is the contract every chat backend implements.
// Providers MUST be safe for concurrent calls: a single instance is shared by
// every request for the lifetime of the process.
type Provider interface {
	// ID returns the provider key (e.g., "openai", "gemini").
	ID() string

	// Chat sends one request and blocks until the full answer is available.
	// Failures are reported as *ProviderError.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// StreamChat starts a streaming request. An error is returned only when
	// the stream could not be opened; failures after that are delivered on
	// the stream's Err channel.
	StreamChat(ctx context.Context, req *ChatRequest) (*ChatStream, error)

	// IsAvailable is a best-effort liveness check that never bills a
	// generation call.
	IsAvailable(ctx context.Context) bool

	// DefaultModel returns the model used when the caller names none.
	DefaultModel() string
}
