package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultTopK is the number of passages requested per query.
const DefaultTopK = 3

// Searcher is the part of Client the Augmenter depends on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Augmenter turns a query into a formatted context block.
type Augmenter struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewAugmenter wraps searcher. A nil logger uses slog.Default().
func NewAugmenter(searcher Searcher, logger *slog.Logger) *Augmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Augmenter{
		searcher: searcher,
		logger:   logger.With("component", "retrieval"),
	}
}

// Augment fetches up to topK passages for query and formats them. It fails
// open: every error is logged and yields "".
func (a *Augmenter) Augment(ctx context.Context, query string, topK int) string {
	if topK <= 0 {
		topK = DefaultTopK
	}

	passages, err := a.searcher.Search(ctx, query, topK)
	if err != nil {
		switch {
		case errors.Is(err, ErrTimeout):
			a.logger.Warn("retrieval service request timed out", "error", err)
		case errors.Is(err, ErrUnavailable):
			a.logger.Warn("could not connect to retrieval service", "error", err)
		case errors.Is(err, ErrStatus):
			a.logger.Warn("retrieval service returned an error status", "error", err)
		default:
			a.logger.Error("error retrieving context", "error", err)
		}
		return ""
	}

	if len(passages) == 0 {
		a.logger.Info("no relevant context found for query")
		return ""
	}

	a.logger.Info("retrieved context chunks", "count", len(passages))
	for i, p := range passages {
		a.logger.Debug("context source", "index", i+1, "document_id", p.Metadata.DocumentID, "title", p.Metadata.Title)
	}
	return FormatPassages(passages)
}

// FormatPassages renders passages as numbered sources separated by "---".
func FormatPassages(passages []Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		title := p.Metadata.Title
		if title == "" {
			title = "Untitled"
		}
		parts[i] = fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, title, p.Text)
	}
	return strings.Join(parts, "\n---\n")
}

// BuildPrompt merges retrieved context into the user's message. With no
// context the message is returned unchanged.
func BuildPrompt(message, retrieved string) string {
	if retrieved == "" {
		return message
	}
	return "Context information:\n" + retrieved +
		"\n\nUser question: " + message +
		"\n\nAnswer the question based on the context above. " +
		"If the context doesn't help answer the question, use your general knowledge."
}
