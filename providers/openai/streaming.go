package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/normalize"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

// doneSentinel terminates an OpenAI event stream.
const doneSentinel = "[DONE]"

// doStreamChat performs a streaming chat completion request.
func (p *OpenAI) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	resp, err := p.post(ctx, req, true)
	if err != nil {
		return nil, err
	}

	w, stream := core.NewStreamWriter(0)
	go func() {
		defer resp.Body.Close()
		w.Close(readStream(ctx, resp.Body, w))
	}()
	return stream, nil
}

// readStream forwards content deltas until [DONE], EOF, an error event or
// cancellation.
func readStream(ctx context.Context, body io.Reader, w *core.StreamWriter) error {
	dec := wire.NewSSEDecoder(body)
	for {
		data, err := dec.NextData()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return newNetworkError(err)
		}
		if data == doneSentinel {
			return nil
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return newDecodeError(err)
		}
		if chunk.Error != nil {
			code := chunk.Error.Code
			if code == "" {
				code = chunk.Error.Type
			}
			return normalize.StreamError(providerID, code, chunk.Error.Message)
		}

		for _, choice := range chunk.Choices {
			if !w.Send(ctx, choice.Delta.Content) {
				return ctx.Err()
			}
		}
	}
}
