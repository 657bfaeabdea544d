// Package config handles gateway configuration loading and management.
//
// Configuration is read from a YAML file, or TOML when the file name ends in
// ".toml", then overridden by CHATGATE_* environment variables. A missing
// file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/petal-labs/chatgate/core"
)

// Defaults applied before the file is read.
const (
	DefaultAddr         = ":8000"
	DefaultProvider     = "gemini"
	DefaultRetrievalURL = "http://localhost:8001"
	DefaultTopK         = 3
	DefaultLogLevel     = "info"
)

// Config represents the gateway configuration.
type Config struct {
	Addr            string                    `yaml:"addr" toml:"addr"`
	DefaultProvider string                    `yaml:"default_provider" toml:"default_provider"`
	LogLevel        string                    `yaml:"log_level" toml:"log_level"`
	CallTimeout     time.Duration             `yaml:"call_timeout" toml:"call_timeout"`
	Retrieval       RetrievalConfig           `yaml:"retrieval" toml:"retrieval"`
	Providers       map[string]ProviderConfig `yaml:"providers" toml:"providers"`
}

// RetrievalConfig configures the document retrieval service.
type RetrievalConfig struct {
	URL      string        `yaml:"url" toml:"url"`
	TopK     int           `yaml:"top_k" toml:"top_k"`
	Timeout  time.Duration `yaml:"timeout" toml:"timeout"`
	Disabled bool          `yaml:"disabled" toml:"disabled"`
}

// Enabled reports whether requests may be augmented.
func (r RetrievalConfig) Enabled() bool {
	return !r.Disabled && r.URL != ""
}

// ProviderConfig holds configuration for a specific provider.
type ProviderConfig struct {
	APIKey       string        `yaml:"api_key,omitempty" toml:"api_key"`
	APIKeyRef    string        `yaml:"api_key_ref,omitempty" toml:"api_key_ref"`
	BaseURL      string        `yaml:"base_url,omitempty" toml:"base_url"`
	DefaultModel string        `yaml:"default_model,omitempty" toml:"default_model"`
	Timeout      time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}

// SecretStore resolves api_key_ref entries. *keystore.FileKeystore
// implements it.
type SecretStore interface {
	Get(name string) (string, error)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		DefaultProvider: DefaultProvider,
		LogLevel:        DefaultLogLevel,
		Retrieval: RetrievalConfig{
			URL:  DefaultRetrievalURL,
			TopK: DefaultTopK,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.chatgate/config.yaml
// - Windows: %USERPROFILE%\.chatgate\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".chatgate", "config.yaml")
}

// LoadConfig loads configuration from the specified path and applies
// environment overrides. If the file doesn't exist, the defaults are used.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	case strings.EqualFold(filepath.Ext(path), ".toml"):
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	providers := make(map[string]ProviderConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		providers[strings.ToLower(name)] = pc
	}
	cfg.Providers = providers

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with CHATGATE_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CHATGATE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("CHATGATE_DEFAULT_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}
	if v := os.Getenv("CHATGATE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("CHATGATE_RETRIEVAL_URL"); ok {
		c.Retrieval.URL = v
	}
	if v := os.Getenv("CHATGATE_CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHATGATE_CALL_TIMEOUT: %w", err)
		}
		c.CallTimeout = d
	}
	return nil
}

// LoadDotEnv loads environment variables from path. Variables already set
// win. A missing file is silently ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// GetProvider returns the provider config for the given ID.
// Returns nil if the provider is not configured.
func (c *Config) GetProvider(id string) *ProviderConfig {
	if c.Providers == nil {
		return nil
	}
	if pc, ok := c.Providers[strings.ToLower(id)]; ok {
		return &pc
	}
	return nil
}

// ProviderConfigs converts the provider entries into constructor
// configuration. Credentials come from api_key, else from the keystore entry
// named by api_key_ref; providers with neither fall back to their
// environment variable at construction time.
func (c *Config) ProviderConfigs(store SecretStore) (map[string]core.ProviderConfig, error) {
	out := make(map[string]core.ProviderConfig, len(c.Providers))
	for name, pc := range c.Providers {
		key := pc.APIKey
		if key == "" && pc.APIKeyRef != "" {
			if store == nil {
				return nil, fmt.Errorf("provider %s: api_key_ref %q set but no keystore available", name, pc.APIKeyRef)
			}
			v, err := store.Get(pc.APIKeyRef)
			if err != nil {
				return nil, fmt.Errorf("provider %s: resolve api_key_ref %q: %w", name, pc.APIKeyRef, err)
			}
			key = v
		}
		out[strings.ToLower(name)] = core.ProviderConfig{
			APIKey:       core.NewSecret(key),
			BaseURL:      pc.BaseURL,
			DefaultModel: pc.DefaultModel,
			Timeout:      pc.Timeout,
		}
	}
	return out, nil
}

// NeedsKeystore reports whether any provider references the keystore.
func (c *Config) NeedsKeystore() bool {
	for _, pc := range c.Providers {
		if pc.APIKey == "" && pc.APIKeyRef != "" {
			return true
		}
	}
	return false
}
