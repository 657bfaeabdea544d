// Package commands implements the chatgate command tree using Cobra.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatgate/cli/config"
	"github.com/petal-labs/chatgate/cli/keystore"
	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers"
)

// ConfigLoader loads configuration from a path.
type ConfigLoader func(path string) (*config.Config, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// RegistryFactory builds the provider registry from resolved configuration.
type RegistryFactory func(cfg map[string]core.ProviderConfig, logger *slog.Logger) *providers.Registry

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newKeystore KeystoreFactory
	newRegistry RegistryFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger

	cfgFile    string
	envFile    string
	provider   string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	chatMessage string
	chatParams  []string
	chatNoRAG   bool
	chatStream  bool

	serveAddr      string
	providersCheck bool
	initForce      bool
	initProvider   string
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithRegistryFactory injects the provider registry constructor.
func WithRegistryFactory(factory RegistryFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newRegistry = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:   config.LoadConfig,
		newKeystore:  keystore.NewKeystore,
		newRegistry:  defaultRegistry,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		initProvider: config.DefaultProvider,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func defaultRegistry(cfg map[string]core.ProviderConfig, logger *slog.Logger) *providers.Registry {
	return providers.NewRegistry(cfg, providers.WithLogger(logger))
}

// SetArgs overrides the command-line arguments. Mostly for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}
