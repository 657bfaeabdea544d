package core

import (
	"context"
	"errors"
	"strings"
)

// ChatStream is a lazy, finite, non-restartable sequence of text fragments.
//
// Channel rules:
//   - Ch emits fragments in the order the backend produced them
//   - Err emits at most one error, always before Ch is closed
//   - Producers MUST close both channels when finished
//   - Producers MUST stop reading from the backend and release the
//     connection when the request context is cancelled
type ChatStream struct {
	Ch  <-chan ChatChunk
	Err <-chan error
}

// ErrNilStream is returned by DrainStream when given a nil stream.
var ErrNilStream = errors.New("nil stream")

// Wait returns the terminal error of a stream whose Ch has been fully
// consumed, or nil when the stream ended normally.
func (s *ChatStream) Wait() error {
	if s.Err == nil {
		return nil
	}
	err, ok := <-s.Err
	if !ok {
		return nil
	}
	return err
}

// DrainStream accumulates all fragments into a ChatResponse.
// Blocks until the stream completes or ctx is cancelled.
func DrainStream(ctx context.Context, s *ChatStream) (*ChatResponse, error) {
	if s == nil {
		return nil, ErrNilStream
	}

	var out strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-s.Ch:
			if !ok {
				if err := s.Wait(); err != nil {
					return nil, err
				}
				return &ChatResponse{Output: out.String()}, nil
			}
			out.WriteString(chunk.Delta)
		}
	}
}

// StreamWriter is the producer half of a ChatStream. Providers create one per
// request and call Close exactly once when the upstream body is exhausted.
type StreamWriter struct {
	ch  chan ChatChunk
	err chan error
}

// NewStreamWriter allocates the channels of a stream. buffer bounds how far
// the producer may run ahead of the consumer.
func NewStreamWriter(buffer int) (*StreamWriter, *ChatStream) {
	w := &StreamWriter{
		ch:  make(chan ChatChunk, buffer),
		err: make(chan error, 1),
	}
	return w, &ChatStream{Ch: w.ch, Err: w.err}
}

// Send delivers one fragment. It returns false when ctx was cancelled before
// the consumer accepted it; the producer must then stop.
func (w *StreamWriter) Send(ctx context.Context, delta string) bool {
	if delta == "" {
		return true
	}
	select {
	case w.ch <- ChatChunk{Delta: delta}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close ends the stream, reporting err (if non-nil) as the terminal error.
func (w *StreamWriter) Close(err error) {
	if err != nil {
		w.err <- err
	}
	close(w.err)
	close(w.ch)
}
