package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/normalize"
	"github.com/petal-labs/chatgate/providers/internal/wire"
)

// doStreamChat performs a streamGenerateContent request.
func (p *Gemini) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	resp, err := p.post(ctx, req, fmt.Sprintf(streamPath, url.PathEscape(p.model(req))))
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

// processSSEStream emits the text of every event. Each event is a complete
// generateContent response carrying the next slice of the answer.
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

		var event geminiResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return newDecodeError(err)
		}
		if event.Error != nil {
			return normalize.StreamError(providerID, event.Error.Status, event.Error.Message)
		}
		if len(event.Candidates) == 0 && event.PromptFeedback != nil && event.PromptFeedback.BlockReason != "" {
			return blockedError(event.PromptFeedback.BlockReason)
		}

		if !w.Send(ctx, event.text()) {
			return ctx.Err()
		}
	}
}
