package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petal-labs/chatgate/core"
)

func TestNewFromConfigBaseURL(t *testing.T) {
	tests := []struct {
		name string
		env  string
		cfg  string
		want string
	}{
		{"default", "", "", DefaultLocalURL},
		{"env", "http://gpu-box:11434/", "", "http://gpu-box:11434"},
		{"config wins", "http://gpu-box:11434", "https://ollama.internal", "https://ollama.internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(BaseURLEnvVar, tt.env)

			p, err := NewFromConfig(core.ProviderConfig{BaseURL: tt.cfg})
			if err != nil {
				t.Fatalf("NewFromConfig() error = %v", err)
			}
			if p.config.BaseURL != tt.want {
				t.Errorf("BaseURL = %q, want %q", p.config.BaseURL, tt.want)
			}
			if p.DefaultModel() != DefaultModel {
				t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), DefaultModel)
			}
		})
	}
}

func TestNewFromConfigRejectsBadURL(t *testing.T) {
	t.Setenv(BaseURLEnvVar, "")

	_, err := NewFromConfig(core.ProviderConfig{BaseURL: "localhost:11434"})
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tags" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
	}))
	defer server.Close()

	if !New(WithBaseURL(server.URL)).IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false for reachable server")
	}
}

func TestIsAvailableDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if New(WithBaseURL(url)).IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true for stopped server")
	}
}
