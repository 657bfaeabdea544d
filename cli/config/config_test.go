package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultConfigPath() = %q, should end with config.yaml", path)
	}
	if os.Getenv("HOME") != "" && filepath.Base(filepath.Dir(path)) != ".chatgate" {
		t.Errorf("DefaultConfigPath() = %q, should be in .chatgate directory", path)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.DefaultProvider != "gemini" {
		t.Errorf("DefaultProvider = %q, want gemini", cfg.DefaultProvider)
	}
	if cfg.Retrieval.URL != DefaultRetrievalURL || cfg.Retrieval.TopK != 3 {
		t.Errorf("Retrieval = %+v, want defaults", cfg.Retrieval)
	}
	if !cfg.Retrieval.Enabled() {
		t.Error("retrieval should be enabled by default")
	}
	if cfg.Providers == nil {
		t.Error("Providers map is nil")
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
addr: ":9000"
default_provider: openai
call_timeout: 45s
retrieval:
  url: http://rag:8001
  top_k: 5
  timeout: 2s
providers:
  OpenAI:
    api_key_ref: openai_key
    base_url: https://proxy.example/v1
    default_model: gpt-4o
    timeout: 30s
  anthropic:
    api_key: sk-ant-inline
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q, want openai", cfg.DefaultProvider)
	}
	if cfg.CallTimeout != 45*time.Second {
		t.Errorf("CallTimeout = %v, want 45s", cfg.CallTimeout)
	}
	if cfg.Retrieval.URL != "http://rag:8001" || cfg.Retrieval.TopK != 5 || cfg.Retrieval.Timeout != 2*time.Second {
		t.Errorf("Retrieval = %+v", cfg.Retrieval)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default kept", cfg.LogLevel)
	}

	openai := cfg.GetProvider("openai")
	if openai == nil {
		t.Fatal("GetProvider(openai) returned nil")
	}
	if openai.APIKeyRef != "openai_key" || openai.BaseURL != "https://proxy.example/v1" {
		t.Errorf("openai = %+v", openai)
	}
	if openai.DefaultModel != "gpt-4o" || openai.Timeout != 30*time.Second {
		t.Errorf("openai = %+v", openai)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "chatgate.toml", `
default_provider = "ollama"
call_timeout = "1m"

[retrieval]
disabled = true

[providers.ollama]
base_url = "http://gpu-box:11434"
default_model = "llama3.1"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DefaultProvider != "ollama" {
		t.Errorf("DefaultProvider = %q, want ollama", cfg.DefaultProvider)
	}
	if cfg.CallTimeout != time.Minute {
		t.Errorf("CallTimeout = %v, want 1m", cfg.CallTimeout)
	}
	if cfg.Retrieval.Enabled() {
		t.Error("retrieval should be disabled")
	}
	ollama := cfg.GetProvider("ollama")
	if ollama == nil || ollama.BaseURL != "http://gpu-box:11434" || ollama.DefaultModel != "llama3.1" {
		t.Errorf("ollama = %+v", ollama)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml wrong type", "config.yaml", "default_provider: [a, b]\n"},
		{"yaml bad duration", "config.yaml", "call_timeout: soon\n"},
		{"toml syntax", "config.toml", "default_provider = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("LoadConfig() should return error")
			}
		})
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.yaml", ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Providers == nil {
		t.Error("Providers map is nil for empty file")
	}
	if cfg.DefaultProvider != DefaultProvider {
		t.Errorf("DefaultProvider = %q, want default", cfg.DefaultProvider)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "addr: \":9000\"\ndefault_provider: openai\n")

	t.Setenv("CHATGATE_ADDR", ":7000")
	t.Setenv("CHATGATE_DEFAULT_PROVIDER", "anthropic")
	t.Setenv("CHATGATE_LOG_LEVEL", "debug")
	t.Setenv("CHATGATE_RETRIEVAL_URL", "")
	t.Setenv("CHATGATE_CALL_TIMEOUT", "10s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Addr)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("DefaultProvider = %q, want anthropic", cfg.DefaultProvider)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Retrieval.Enabled() {
		t.Error("empty CHATGATE_RETRIEVAL_URL should disable retrieval")
	}
	if cfg.CallTimeout != 10*time.Second {
		t.Errorf("CallTimeout = %v, want 10s", cfg.CallTimeout)
	}
}

func TestLoadConfigBadEnvDuration(t *testing.T) {
	t.Setenv("CHATGATE_CALL_TIMEOUT", "forever")
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadConfig() should reject an invalid CHATGATE_CALL_TIMEOUT")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadDotEnv(missing) error = %v, want nil", err)
	}

	t.Setenv("CHATGATE_DOTENV_TEST", "from-env")
	t.Setenv("CHATGATE_DOTENV_NEW", "")
	os.Unsetenv("CHATGATE_DOTENV_NEW")

	path := writeFile(t, ".env", "CHATGATE_DOTENV_TEST=from-file\nCHATGATE_DOTENV_NEW=loaded\n")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CHATGATE_DOTENV_NEW") })

	if got := os.Getenv("CHATGATE_DOTENV_TEST"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
	if got := os.Getenv("CHATGATE_DOTENV_NEW"); got != "loaded" {
		t.Errorf("CHATGATE_DOTENV_NEW = %q, want loaded", got)
	}
}

type mapStore map[string]string

func (m mapStore) Get(name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", errors.New("key not found: " + name)
	}
	return v, nil
}

func TestProviderConfigs(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai":    {APIKeyRef: "openai_key", BaseURL: "https://proxy/v1"},
			"anthropic": {APIKey: "inline", APIKeyRef: "ignored"},
			"ollama":    {BaseURL: "http://gpu:11434", DefaultModel: "llama3.1", Timeout: time.Minute},
		},
	}

	if !cfg.NeedsKeystore() {
		t.Error("NeedsKeystore() = false, want true")
	}

	out, err := cfg.ProviderConfigs(mapStore{"openai_key": "sk-from-store"})
	if err != nil {
		t.Fatalf("ProviderConfigs() error = %v", err)
	}

	if got := out["openai"].APIKey.Expose(); got != "sk-from-store" {
		t.Errorf("openai key = %q, want keystore value", got)
	}
	if out["openai"].BaseURL != "https://proxy/v1" {
		t.Errorf("openai base url = %q", out["openai"].BaseURL)
	}
	if got := out["anthropic"].APIKey.Expose(); got != "inline" {
		t.Errorf("anthropic key = %q, want inline value", got)
	}
	if !out["ollama"].APIKey.IsEmpty() {
		t.Error("ollama key should be empty")
	}
	if out["ollama"].DefaultModel != "llama3.1" || out["ollama"].Timeout != time.Minute {
		t.Errorf("ollama = %+v", out["ollama"])
	}
}

func TestProviderConfigsMissingRef(t *testing.T) {
	cfg := &Config{Providers: map[string]ProviderConfig{"openai": {APIKeyRef: "absent"}}}

	if _, err := cfg.ProviderConfigs(mapStore{}); err == nil {
		t.Error("ProviderConfigs() should fail for an unknown api_key_ref")
	}
	if _, err := cfg.ProviderConfigs(nil); err == nil {
		t.Error("ProviderConfigs() should fail without a keystore")
	}
}
