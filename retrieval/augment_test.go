package retrieval

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	passages []Passage
	err      error
	gotTopK  int
}

func (s *stubSearcher) Search(_ context.Context, _ string, topK int) ([]Passage, error) {
	s.gotTopK = topK
	return s.passages, s.err
}

func newTestAugmenter(s Searcher) (*Augmenter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewAugmenter(s, logger), &buf
}

func TestAugmentFormatsPassages(t *testing.T) {
	s := &stubSearcher{passages: []Passage{
		{Text: "Paris is the capital of France.", Metadata: Metadata{Title: "Geography"}},
		{Text: "The Seine flows through Paris.", Metadata: Metadata{Title: "Rivers"}},
	}}
	a, _ := newTestAugmenter(s)

	got := a.Augment(context.Background(), "capital?", 3)

	want := "[Source 1: Geography]\nParis is the capital of France.\n" +
		"\n---\n" +
		"[Source 2: Rivers]\nThe Seine flows through Paris.\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 3, s.gotTopK)
}

func TestAugmentDefaultsTopK(t *testing.T) {
	s := &stubSearcher{}
	a, _ := newTestAugmenter(s)

	a.Augment(context.Background(), "q", 0)
	assert.Equal(t, DefaultTopK, s.gotTopK)
}

func TestAugmentNoResults(t *testing.T) {
	a, logs := newTestAugmenter(&stubSearcher{})

	assert.Equal(t, "", a.Augment(context.Background(), "q", 3))
	assert.Contains(t, logs.String(), "no relevant context found")
}

func TestAugmentFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		level   string
		message string
	}{
		{"timeout", fmt.Errorf("%w: deadline", ErrTimeout), "WARN", "timed out"},
		{"connection", fmt.Errorf("%w: refused", ErrUnavailable), "WARN", "could not connect"},
		{"status", &StatusError{Status: 503}, "WARN", "error status"},
		{"decode", fmt.Errorf("%w: eof", ErrDecode), "ERROR", "error retrieving context"},
		{"other", errors.New("boom"), "ERROR", "error retrieving context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, logs := newTestAugmenter(&stubSearcher{err: tt.err})

			assert.Equal(t, "", a.Augment(context.Background(), "q", 3))
			assert.Contains(t, logs.String(), "level="+tt.level)
			assert.Contains(t, logs.String(), tt.message)
		})
	}
}

func TestFormatPassagesDefaultsTitle(t *testing.T) {
	got := FormatPassages([]Passage{{Text: "body"}})
	assert.Equal(t, "[Source 1: Untitled]\nbody\n", got)
}

func TestBuildPrompt(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		got := BuildPrompt("What is X?", "[Source 1: A]\nX is Y.\n")
		want := "Context information:\n[Source 1: A]\nX is Y.\n\n\n" +
			"User question: What is X?\n\n" +
			"Answer the question based on the context above. If the context doesn't help answer the question, use your general knowledge."
		assert.Equal(t, want, got)
	})

	t.Run("empty context is identity", func(t *testing.T) {
		msg := "  exact bytes\n\twith whitespace "
		assert.Equal(t, msg, BuildPrompt(msg, ""))
	})
}
