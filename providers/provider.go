// Package providers holds the chat backend registry. Each backend lives in
// its own subpackage (providers/openai, providers/ollama, ...) and registers
// a constructor from its init function, so a binary serves exactly the
// backends it imports.
//
// # Provider Interface
//
// All backends implement core.Provider:
//
//	type Provider interface {
//	    ID() string
//	    Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
//	    StreamChat(ctx context.Context, req *ChatRequest) (*ChatStream, error)
//	    IsAvailable(ctx context.Context) bool
//	    DefaultModel() string
//	}
//
// # Concurrency
//
// Providers MUST be safe for concurrent calls. A Registry hands the same
// instance to every request.
//
// # Streaming
//
// StreamChat returns a *ChatStream (not a raw channel) to carry errors
// consistently. Providers MUST:
//   - Close both channels (Ch, Err) when finished
//   - Terminate promptly on context cancellation and release the connection
//   - Send at most one error on Err
package providers

import "github.com/petal-labs/chatgate/core"

// Re-export core types for convenience.
// Provider implementations can import just the providers package.
type (
	// Provider is the interface that chat backends must implement.
	Provider = core.Provider

	// ChatRequest represents a request to a chat model.
	ChatRequest = core.ChatRequest

	// ChatResponse represents a response from a chat model.
	ChatResponse = core.ChatResponse

	// ChatStream represents a streaming response from a provider.
	ChatStream = core.ChatStream

	// ProviderConfig is the explicit configuration handed to constructors.
	ProviderConfig = core.ProviderConfig
)
