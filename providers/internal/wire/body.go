// Package wire holds the request and response plumbing shared by the
// provider adapters: params passthrough and streaming line decoders.
package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/petal-labs/chatgate/core"
)

// MergeBody marshals base and overlays params onto the top level of the
// resulting JSON object. Keys listed in reserved belong to the adapter and
// are never overwritten.
func MergeBody(base any, params core.Params, reserved ...string) ([]byte, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return raw, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("request body is not an object: %w", err)
	}
	Overlay(obj, params, reserved...)
	return json.Marshal(obj)
}

// Overlay copies params into dst, skipping reserved keys.
func Overlay(dst map[string]any, params core.Params, reserved ...string) {
	for k, v := range params {
		if slices.Contains(reserved, k) {
			continue
		}
		dst[k] = v
	}
}

// NewJSONRequest builds a POST request carrying body with JSON content type
// and the given headers.
func NewJSONRequest(ctx context.Context, url string, body []byte, headers http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// DecodeJSON reads a JSON document from r into v.
func DecodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
