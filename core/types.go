package core

import "maps"

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message sent to a backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params is an open-ended bag of backend-specific knobs (temperature,
// max_tokens, ...). It is an unvalidated passthrough: the gateway never
// interprets keys, each backend adapter forwards them verbatim and the
// backend reports anything it rejects.
type Params map[string]any

// Clone returns a shallow copy of p. A nil Params clones to an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// ChatRequest represents a request to a chat backend.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Params   Params    `json:"params,omitempty"`
}

// UserRequest builds a single-turn request for model.
func UserRequest(model, message string, params Params) *ChatRequest {
	return &ChatRequest{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: message}},
		Params:   params,
	}
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the complete answer of a single-shot call.
type ChatResponse struct {
	ID     string     `json:"id,omitempty"`
	Model  string     `json:"model"`
	Output string     `json:"output"`
	Usage  TokenUsage `json:"usage"`
}

// ChatChunk is one incremental text fragment of a streamed answer.
type ChatChunk struct {
	Delta string `json:"delta"`
}
