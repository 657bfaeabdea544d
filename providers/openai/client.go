package openai

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

const (
	chatCompletionsPath = "/chat/completions"
	modelsPath          = "/models"
)

// doChat performs a non-streaming chat completion request.
func (p *OpenAI) doChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	resp, err := p.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var oaiResp openAIResponse
	if err := wire.DecodeJSON(resp.Body, &oaiResp); err != nil {
		return nil, newDecodeError(err)
	}

	return mapResponse(&oaiResp), nil
}

// post sends a chat completion request and returns the response when its
// status is 2xx. The caller owns the body.
func (p *OpenAI) post(ctx context.Context, req *core.ChatRequest, stream bool) (*http.Response, error) {
	body, err := wire.MergeBody(buildRequest(req, stream, p.config.DefaultModel), req.Params, reservedKeys...)
	if err != nil {
		return nil, newDecodeError(err)
	}

	httpReq, err := wire.NewJSONRequest(ctx, p.config.BaseURL+chatCompletionsPath, body, p.buildHeaders())
	if err != nil {
		return nil, newNetworkError(err)
	}
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
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

// buildRequest converts a core request into the Chat Completions shape.
func buildRequest(req *core.ChatRequest, stream bool, defaultModel string) openAIRequest {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	msgs := make([]openAIMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openAIMessage{Role: string(m.Role), Content: m.Content}
	}

	return openAIRequest{
		Model:    model,
		Messages: msgs,
		Stream:   stream,
	}
}

// mapResponse converts an OpenAI response to a ChatResponse.
func mapResponse(resp *openAIResponse) *core.ChatResponse {
	result := &core.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: core.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(resp.Choices) > 0 {
		result.Output = resp.Choices[0].Message.Content
	}

	return result
}
