package gemini

import (
	"net/http"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/normalize"
)

// Gemini answers 404 for model names it does not serve; that is a caller
// mistake rather than a missing resource.
var statusOverrides = map[int]error{
	http.StatusNotFound: core.ErrBadRequest,
}

// normalizeError converts an HTTP error response to a ProviderError.
func normalizeError(resp *http.Response) error {
	return normalize.FromResponse(providerID, resp, "", statusOverrides)
}

// blockedError reports a prompt rejected by safety filters.
func blockedError(reason string) error {
	return normalize.ProviderError(providerID, http.StatusBadRequest, "", reason,
		"prompt blocked: "+reason, core.ErrBadRequest)
}

func newNetworkError(err error) error {
	return normalize.NetworkError(providerID, err)
}

func newDecodeError(err error) error {
	return normalize.DecodeError(providerID, err)
}
