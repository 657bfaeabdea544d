package anthropic

import (
	"net/http"

	"github.com/petal-labs/chatgate/providers/internal/normalize"
)

// normalizeError converts an HTTP error response to a ProviderError.
// Anthropic returns 529 when overloaded; it maps to ErrServer like any 5xx.
func normalizeError(resp *http.Response) error {
	return normalize.FromResponse(providerID, resp, "request-id", nil)
}

func newNetworkError(err error) error {
	return normalize.NetworkError(providerID, err)
}

func newDecodeError(err error) error {
	return normalize.DecodeError(providerID, err)
}
