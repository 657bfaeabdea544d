package core

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError represents a failed backend call with full context.
type ProviderError struct {
	Provider  string
	Status    int
	RequestID string
	Code      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status=%d, code=%s, request_id=%s)",
			e.Provider, e.Message, e.Status, e.Code, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status=%d, code=%s)",
		e.Provider, e.Message, e.Status, e.Code)
}

// Unwrap returns the underlying error for error chaining.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classifying backend failures.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
)

// Sentinel errors for registry failures. Both are caller faults.
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrConfiguration   = errors.New("provider configuration error")
)

// UnknownProviderError is returned when a provider key is not registered.
type UnknownProviderError struct {
	Name      string
	Available []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("Provider '%s' not supported. Available providers: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrUnknownProvider) match.
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// ConfigError is returned when a provider cannot be constructed, usually
// because a required credential is missing.
type ConfigError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Provider == "" {
		return msg
	}
	return fmt.Sprintf("Failed to initialize provider '%s': %s", e.Provider, msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// MissingCredential builds the ConfigError a provider returns when neither
// explicit configuration nor envVar supplies its credential.
func MissingCredential(provider, envVar string) error {
	return &ConfigError{
		Provider: provider,
		Message:  fmt.Sprintf("API key is required. Set %s environment variable.", envVar),
	}
}
