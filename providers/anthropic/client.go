package anthropic

import (
	"context"
	"net/http"
	"strings"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

// messagesPath is the API endpoint for messages.
const messagesPath = "/v1/messages"

// doChat performs a non-streaming messages request.
func (p *Anthropic) doChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	resp, err := p.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var antResp anthropicResponse
	if err := wire.DecodeJSON(resp.Body, &antResp); err != nil {
		return nil, newDecodeError(err)
	}

	return mapResponse(&antResp), nil
}

func (p *Anthropic) post(ctx context.Context, req *core.ChatRequest, stream bool) (*http.Response, error) {
	body, err := wire.MergeBody(p.buildRequest(req, stream), req.Params, reservedKeys...)
	if err != nil {
		return nil, newDecodeError(err)
	}

	httpReq, err := wire.NewJSONRequest(ctx, p.config.BaseURL+messagesPath, body, p.buildHeaders())
	if err != nil {
		return nil, newNetworkError(err)
	}

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, normalizeError(resp)
	}
	return resp, nil
}

// buildRequest converts a core request into the Messages API shape.
// max_tokens from params replaces the default during the merge.
func (p *Anthropic) buildRequest(req *core.ChatRequest, stream bool) anthropicRequest {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	msgs := make([]anthropicMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = anthropicMessage{
			Role:    string(m.Role),
			Content: []anthropicContentBlock{{Type: "text", Text: m.Content}},
		}
	}

	return anthropicRequest{
		Model:     model,
		Messages:  msgs,
		MaxTokens: defaultMaxTokens,
		Stream:    stream,
	}
}

// mapResponse joins the text blocks of a response.
func mapResponse(resp *anthropicResponse) *core.ChatResponse {
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	return &core.ChatResponse{
		ID:     resp.ID,
		Model:  resp.Model,
		Output: out.String(),
		Usage: core.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
}
