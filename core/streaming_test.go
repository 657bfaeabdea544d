package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainStreamAccumulatesDeltas(t *testing.T) {
	w, stream := NewStreamWriter(0)
	go func() {
		ctx := context.Background()
		w.Send(ctx, "Hello")
		w.Send(ctx, " ")
		w.Send(ctx, "World")
		w.Close(nil)
	}()

	resp, err := DrainStream(context.Background(), stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", resp.Output)
}

func TestDrainStreamReturnsTerminalError(t *testing.T) {
	boom := &ProviderError{Provider: "test", Message: "boom", Err: ErrServer}

	w, stream := NewStreamWriter(4)
	go func() {
		w.Send(context.Background(), "partial")
		w.Close(boom)
	}()

	_, err := DrainStream(context.Background(), stream)
	assert.ErrorIs(t, err, ErrServer)
}

func TestDrainStreamContextCancelled(t *testing.T) {
	_, stream := NewStreamWriter(0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := DrainStream(ctx, stream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDrainStreamNil(t *testing.T) {
	_, err := DrainStream(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilStream)
}

func TestStreamWriterErrorVisibleAfterChannelClose(t *testing.T) {
	w, stream := NewStreamWriter(1)
	boom := errors.New("boom")
	w.Close(boom)

	for range stream.Ch {
		t.Fatal("no fragments expected")
	}
	assert.Equal(t, boom, stream.Wait())
	assert.NoError(t, stream.Wait(), "Err is closed after the single error")
}

func TestStreamWriterSendStopsOnCancel(t *testing.T) {
	w, _ := NewStreamWriter(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, w.Send(ctx, "never read"))
	assert.True(t, w.Send(ctx, ""), "empty deltas are skipped")
}
