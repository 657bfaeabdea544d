package gateway

import (
	"errors"
	"strings"

	"github.com/petal-labs/chatgate/core"
)

// DefaultProvider is used when a request names no provider.
const DefaultProvider = "gemini"

// ChatRequest is an inbound chat request.
type ChatRequest struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`

	// Parameters are forwarded to the backend verbatim.
	Parameters core.Params `json:"parameters,omitempty"`

	UseRAG bool `json:"use_rag"`
}

// ErrEmptyMessage is returned by Validate for a request without text.
var ErrEmptyMessage = errors.New("message must not be empty")

// Validate checks the request invariants.
func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return &RequestError{Err: ErrEmptyMessage}
	}
	return nil
}

// ChatResult is the outcome of a single-shot chat.
type ChatResult struct {
	// Prompt is the message actually sent, after augmentation.
	Prompt   string `json:"prompt"`
	Response string `json:"response"`

	// Provider echoes the key the caller supplied.
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Frame is one unit of a streamed answer. A frame with a non-empty Error is
// the last frame of its stream.
type Frame struct {
	Token    string `json:"token,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

// IsError reports whether f is a terminal error frame.
func (f Frame) IsError() bool {
	return f.Error != ""
}

// RequestError is a caller fault: validation, an unknown provider or a
// provider that cannot be configured.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// CallError is a backend fault raised while answering a valid request.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string { return e.Err.Error() }

func (e *CallError) Unwrap() error { return e.Err }

// preview shortens a message for logs.
func preview(msg string, n int) string {
	r := []rune(msg)
	if len(r) <= n {
		return msg
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
