package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

const (
	generatePath = "/v1beta/models/%s:generateContent"
	streamPath   = "/v1beta/models/%s:streamGenerateContent?alt=sse"
)

// doChat performs a non-streaming generateContent request.
func (p *Gemini) doChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	model := p.model(req)
	resp, err := p.post(ctx, req, fmt.Sprintf(generatePath, url.PathEscape(model)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var gemResp geminiResponse
	if err := wire.DecodeJSON(resp.Body, &gemResp); err != nil {
		return nil, newDecodeError(err)
	}

	if len(gemResp.Candidates) == 0 && gemResp.PromptFeedback != nil && gemResp.PromptFeedback.BlockReason != "" {
		return nil, blockedError(gemResp.PromptFeedback.BlockReason)
	}

	return mapResponse(&gemResp, model), nil
}

func (p *Gemini) post(ctx context.Context, req *core.ChatRequest, path string) (*http.Response, error) {
	body, err := buildBody(req)
	if err != nil {
		return nil, newDecodeError(err)
	}

	httpReq, err := wire.NewJSONRequest(ctx, p.config.BaseURL+path, body, p.buildHeaders())
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

func (p *Gemini) model(req *core.ChatRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return p.config.DefaultModel
}
