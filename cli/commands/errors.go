package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/gateway"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitProvider   = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

// Reported is true when the error has already been written to stderr.
func (e *exitError) Reported() bool {
	return e.reported
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeFor classifies a dispatcher error.
func exitCodeFor(err error) int {
	var reqErr *gateway.RequestError
	switch {
	case errors.As(err, &reqErr):
		return ExitValidation
	case errors.Is(err, core.ErrNetwork):
		return ExitNetwork
	default:
		return ExitProvider
	}
}

// handleChatError reports err on stderr and attaches its exit code.
func (a *App) handleChatError(err error) error {
	code := exitCodeFor(err)

	var provErr *core.ProviderError
	if a.jsonOutput {
		body := map[string]any{"message": err.Error()}
		switch {
		case errors.As(err, &provErr):
			body["type"] = provErr.Code
			body["provider"] = provErr.Provider
			body["request_id"] = provErr.RequestID
		case code == ExitValidation:
			body["type"] = "validation_error"
		case code == ExitNetwork:
			body["type"] = "network_error"
		default:
			body["type"] = "error"
		}
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"error": body})
	} else if errors.As(err, &provErr) {
		fmt.Fprintf(a.stderr, "Error: %s\n", provErr.Message)
		if provErr.RequestID != "" {
			fmt.Fprintf(a.stderr, "  Provider: %s, Request ID: %s\n", provErr.Provider, provErr.RequestID)
		}
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}

	return &exitError{code: code, err: err, reported: true}
}
