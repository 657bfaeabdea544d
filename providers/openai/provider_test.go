package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petal-labs/chatgate/core"
)

func TestNewFromConfigUsesExplicitKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	p, err := NewFromConfig(core.ProviderConfig{
		APIKey:       core.NewSecret("sk-explicit"),
		BaseURL:      "http://localhost:9999/v1/",
		DefaultModel: "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	if p.config.APIKey.Expose() != "sk-explicit" {
		t.Errorf("APIKey not taken from config")
	}
	if p.config.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", p.config.BaseURL)
	}
	if p.DefaultModel() != "gpt-4o-mini" {
		t.Errorf("DefaultModel() = %q, want gpt-4o-mini", p.DefaultModel())
	}
}

func TestNewFromConfigFallsBackToEnv(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "sk-env")

	p, err := NewFromConfig(core.ProviderConfig{})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if p.config.APIKey.Expose() != "sk-env" {
		t.Errorf("APIKey not taken from %s", DefaultAPIKeyEnvVar)
	}
	if p.DefaultModel() != DefaultModel {
		t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), DefaultModel)
	}
	if p.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", p.config.BaseURL, DefaultBaseURL)
	}
}

func TestNewFromConfigMissingKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	_, err := NewFromConfig(core.ProviderConfig{})
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}

	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatal("expected *core.ConfigError")
	}
	if cfgErr.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfgErr.Provider)
	}
}

func TestNewFromEnvAppliesOptions(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "sk-env")

	p, err := NewFromEnv(WithOrgID("org-1"))
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	if got := p.buildHeaders().Get("OpenAI-Organization"); got != "org-1" {
		t.Errorf("OpenAI-Organization = %q, want org-1", got)
	}
}

func TestID(t *testing.T) {
	if got := New("k").ID(); got != "openai" {
		t.Errorf("ID() = %q, want openai", got)
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"models listed", http.StatusOK, true},
		{"bad key", http.StatusUnauthorized, false},
		{"outage", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/models" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("Authorization header incorrect")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"data":[]}`))
			}))
			defer server.Close()

			p := New("test-key", WithBaseURL(server.URL))
			if got := p.IsAvailable(context.Background()); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAvailableUnreachable(t *testing.T) {
	p := New("test-key", WithBaseURL("http://127.0.0.1:1"))
	if p.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true for unreachable backend")
	}
}

func TestHTTPClientReused(t *testing.T) {
	p := New("k")
	if p.httpClient() != p.httpClient() {
		t.Error("httpClient() built more than once")
	}

	custom := &http.Client{}
	p = New("k", WithHTTPClient(custom))
	if p.httpClient() != custom {
		t.Error("configured HTTP client not used")
	}
}
