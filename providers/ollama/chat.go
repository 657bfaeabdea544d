package ollama

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

const (
	chatPath = "/api/chat"
	tagsPath = "/api/tags"
)

// doChat sends a non-streaming chat request to the Ollama API.
func (p *Ollama) doChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	resp, err := p.post(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ollamaResp ollamaResponse
	if err := wire.DecodeJSON(resp.Body, &ollamaResp); err != nil {
		return nil, newDecodeError(err)
	}

	// Check for inline error
	if ollamaResp.Error != "" {
		return nil, newStreamError(ollamaResp.Error)
	}

	return mapResponse(&ollamaResp), nil
}

func (p *Ollama) post(ctx context.Context, req *core.ChatRequest, stream bool) (*http.Response, error) {
	body, err := wire.MergeBody(p.mapRequest(req, stream), req.Params, reservedKeys...)
	if err != nil {
		return nil, newDecodeError(err)
	}

	httpReq, err := wire.NewJSONRequest(ctx, p.config.BaseURL+chatPath, body, p.buildHeaders())
	if err != nil {
		return nil, newNetworkError(err)
	}

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}
	return resp, nil
}

func (p *Ollama) mapRequest(req *core.ChatRequest, stream bool) ollamaRequest {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	msgs := make([]ollamaMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = ollamaMessage{Role: string(m.Role), Content: m.Content}
	}

	return ollamaRequest{
		Model:    model,
		Messages: msgs,
		Stream:   stream,
	}
}

func mapResponse(resp *ollamaResponse) *core.ChatResponse {
	return &core.ChatResponse{
		Model:  resp.Model,
		Output: resp.Message.Content,
		Usage: core.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}
}
