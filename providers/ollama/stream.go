package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

// doStreamChat sends a streaming chat request to the Ollama API.
func (p *Ollama) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
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

// readStream emits message content line by line until a line with
// done=true, an inline error, EOF or cancellation.
func readStream(ctx context.Context, body io.Reader, w *core.StreamWriter) error {
	dec := wire.NewLineDecoder(body)
	for {
		line, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return newNetworkError(err)
		}

		var chunk ollamaResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return newDecodeError(err)
		}
		if chunk.Error != "" {
			return newStreamError(chunk.Error)
		}

		if !w.Send(ctx, chunk.Message.Content) {
			return ctx.Err()
		}
		if chunk.Done {
			return nil
		}
	}
}
