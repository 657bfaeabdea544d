package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/petal-labs/chatgate/core"
)

func TestNewFromConfigDefaultModel(t *testing.T) {
	tests := []struct {
		name     string
		envModel string
		cfgModel string
		want     string
	}{
		{"built-in default", "", "", DefaultModel},
		{"env override", "gemini-2.0-flash", "", "gemini-2.0-flash"},
		{"config wins over env", "gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DefaultAPIKeyEnvVar, "env-key")
			t.Setenv(DefaultModelEnvVar, tt.envModel)

			p, err := NewFromConfig(core.ProviderConfig{DefaultModel: tt.cfgModel})
			if err != nil {
				t.Fatalf("NewFromConfig() error = %v", err)
			}
			if p.DefaultModel() != tt.want {
				t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), tt.want)
			}
		})
	}
}

func TestNewFromConfigMissingKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	_, err := NewFromConfig(core.ProviderConfig{})
	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *core.ConfigError", err)
	}
	if cfgErr.Provider != "gemini" {
		t.Errorf("Provider = %q", cfgErr.Provider)
	}
}

func TestIsAvailable(t *testing.T) {
	if !New("k").IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false with key configured")
	}
	if New("").IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true without key")
	}
}
