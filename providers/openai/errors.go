package openai

import (
	"net/http"

	"github.com/petal-labs/chatgate/providers/internal/normalize"
)

// normalizeError converts an HTTP error response to a ProviderError.
func normalizeError(resp *http.Response) error {
	return normalize.FromResponse(providerID, resp, "x-request-id", nil)
}

// newNetworkError creates a ProviderError for network-related failures.
func newNetworkError(err error) error {
	return normalize.NetworkError(providerID, err)
}

// newDecodeError creates a ProviderError for JSON decode failures.
func newDecodeError(err error) error {
	return normalize.DecodeError(providerID, err)
}
