package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/normalize"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

// doStreamChat performs a streaming messages request.
func (p *Anthropic) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	resp, err := p.post(ctx, req, true)
	if err != nil {
		return nil, err
	}

	w, stream := core.NewStreamWriter(0)
	go func() {
		defer resp.Body.Close()
		w.Close(processSSEStream(ctx, resp.Body, w))
	}()
	return stream, nil
}

// processSSEStream forwards text deltas until message_stop, an error event,
// EOF or cancellation. Other event types carry no text and are skipped.
func processSSEStream(ctx context.Context, body io.Reader, w *core.StreamWriter) error {
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

		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return newDecodeError(err)
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta != nil && event.Delta.Type == "text_delta" {
				if !w.Send(ctx, event.Delta.Text) {
					return ctx.Err()
				}
			}
		case "message_stop":
			return nil
		case "error":
			if event.Error == nil {
				return normalize.StreamError(providerID, "", "unknown stream error")
			}
			return normalize.StreamError(providerID, event.Error.Type, event.Error.Message)
		}
	}
}
