// Package normalize maps backend failures onto core.ProviderError values so
// that every adapter reports errors the same way.
package normalize

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/petal-labs/chatgate/core"
)

// maxErrorBody caps how much of a failed response body is read.
const maxErrorBody = 64 << 10

// errorEnvelope covers the error shapes used by the supported backends:
//
//	{"error":{"message":"...","type":"...","code":"..."}}   openai, anthropic
//	{"error":{"message":"...","status":"...","code":400}}   gemini
//	{"error":"..."}                                         ollama
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorObject struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Code    json.RawMessage `json:"code"`
}

// ParseErrorBody extracts a message and a machine-readable code from a
// backend error body. A body that is not a recognised envelope is returned
// verbatim as the message.
func ParseErrorBody(body []byte) (message, code string) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		return strings.TrimSpace(string(body)), ""
	}

	var s string
	if err := json.Unmarshal(env.Error, &s); err == nil {
		return s, ""
	}

	var obj errorObject
	if err := json.Unmarshal(env.Error, &obj); err != nil {
		return strings.TrimSpace(string(body)), ""
	}

	code = obj.Type
	if obj.Status != "" {
		code = obj.Status
	}
	var strCode string
	if json.Unmarshal(obj.Code, &strCode) == nil && strCode != "" {
		code = strCode
	}
	return obj.Message, code
}

// FromResponse reads a non-2xx response and converts it into a
// ProviderError. requestIDHeader names the header carrying the backend's
// request id; it may be empty.
func FromResponse(provider string, resp *http.Response, requestIDHeader string, overrides map[int]error) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &core.ProviderError{
			Provider: provider,
			Status:   resp.StatusCode,
			Code:     "read_error",
			Message:  fmt.Sprintf("failed to read error response: %v", err),
			Err:      SentinelForStatusWithOverrides(resp.StatusCode, overrides),
		}
	}

	var requestID string
	if requestIDHeader != "" {
		requestID = resp.Header.Get(requestIDHeader)
	}
	return FromBody(provider, resp.StatusCode, body, requestID, overrides)
}

// FromBody normalizes an already-read error body.
func FromBody(provider string, status int, body []byte, requestID string, overrides map[int]error) error {
	message, code := ParseErrorBody(body)
	return ProviderError(provider, status, requestID, code, message,
		SentinelForStatusWithOverrides(status, overrides))
}

// NetworkError wraps transport failures as provider-specific network errors.
func NetworkError(provider string, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Err:      core.ErrNetwork,
	}
}

// DecodeError wraps decode/parsing failures as provider-specific decode errors.
func DecodeError(provider string, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Err:      core.ErrDecode,
	}
}

// StreamError reports an error the backend sent inside an otherwise
// successful stream.
func StreamError(provider, code, message string) error {
	if code == "" {
		code = "stream_error"
	}
	return &core.ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      core.ErrServer,
	}
}

// ProviderError constructs a normalized ProviderError.
// If message is empty, HTTP status text is used.
// If sentinel is nil, default status-based mapping is applied.
func ProviderError(provider string, status int, requestID, code, message string, sentinel error) error {
	if message == "" {
		message = http.StatusText(status)
	}
	if sentinel == nil {
		sentinel = SentinelForStatus(status)
	}
	return &core.ProviderError{
		Provider:  provider,
		Status:    status,
		RequestID: requestID,
		Code:      code,
		Message:   message,
		Err:       sentinel,
	}
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	return SentinelForStatusWithOverrides(status, nil)
}

// SentinelForStatusWithOverrides maps an HTTP status code to a core sentinel error,
// then applies any exact status overrides from the provided map.
func SentinelForStatusWithOverrides(status int, overrides map[int]error) error {
	if override, ok := overrides[status]; ok && override != nil {
		return override
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		return core.ErrServer
	}
}
