package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/petal-labs/chatgate/core"
)

func TestNewFromConfig(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "env-key")

	tests := []struct {
		name    string
		cfg     core.ProviderConfig
		wantKey string
	}{
		{"explicit key wins", core.ProviderConfig{APIKey: core.NewSecret("cfg-key")}, "cfg-key"},
		{"env fallback", core.ProviderConfig{}, "env-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFromConfig(tt.cfg)
			if err != nil {
				t.Fatalf("NewFromConfig() error = %v", err)
			}
			if p.config.APIKey.Expose() != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", p.config.APIKey.Expose(), tt.wantKey)
			}
			if p.DefaultModel() != DefaultModel {
				t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), DefaultModel)
			}
		})
	}
}

func TestNewFromConfigMissingKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	_, err := NewFromConfig(core.ProviderConfig{})
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
	if got := err.Error(); got != "Failed to initialize provider 'anthropic': API key is required. Set ANTHROPIC_API_KEY environment variable." {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsAvailableIsKeyPresence(t *testing.T) {
	if !New("k").IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false with key configured")
	}
	if New("").IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true without key")
	}
}

func TestBuildHeaders(t *testing.T) {
	p := New("test-key", WithVersion("2024-01-01"), WithHeader("anthropic-beta", "x"))
	h := p.buildHeaders()

	if h.Get("x-api-key") != "test-key" {
		t.Errorf("x-api-key = %q", h.Get("x-api-key"))
	}
	if h.Get("anthropic-version") != "2024-01-01" {
		t.Errorf("anthropic-version = %q", h.Get("anthropic-version"))
	}
	if h.Get("anthropic-beta") != "x" {
		t.Errorf("anthropic-beta = %q", h.Get("anthropic-beta"))
	}
}
