package core

import (
	"net/http"
	"os"
	"time"
)

// ProviderConfig is the explicit configuration handed to a provider
// constructor. Empty fields fall back to the provider's environment
// variables and built-in defaults.
type ProviderConfig struct {
	APIKey       Secret
	BaseURL      string
	DefaultModel string

	// Timeout bounds every backend call. Zero means no timeout beyond what
	// the backend itself enforces.
	Timeout time.Duration

	// HTTPClient overrides the lazily-built client. Mostly for tests.
	HTTPClient *http.Client
	Headers    http.Header
}

// Resolve returns explicit when set, else the value of envVar, else fallback.
func Resolve(explicit, envVar, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return fallback
}

// ResolveSecret is Resolve for credentials.
func ResolveSecret(explicit Secret, envVar string) Secret {
	return NewSecret(Resolve(explicit.Expose(), envVar, ""))
}
