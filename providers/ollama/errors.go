package ollama

import (
	"net/http"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers/internal/normalize"
)

// An unknown model is reported as 404; the request named something the
// server never pulled.
var statusOverrides = map[int]error{
	http.StatusNotFound: core.ErrBadRequest,
}

// parseErrorResponse reads and parses an error response from Ollama.
func parseErrorResponse(resp *http.Response) error {
	return normalize.FromResponse(providerID, resp, "", statusOverrides)
}

// newStreamError creates an error from an inline stream error.
func newStreamError(errMsg string) error {
	return normalize.StreamError(providerID, "", errMsg)
}

func newNetworkError(err error) error {
	return normalize.NetworkError(providerID, err)
}

func newDecodeError(err error) error {
	return normalize.DecodeError(providerID, err)
}
