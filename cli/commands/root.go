package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatgate/cli/config"
	"github.com/petal-labs/chatgate/gateway"
	"github.com/petal-labs/chatgate/providers"
	"github.com/petal-labs/chatgate/retrieval"
)

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "chatgate",
		Short: "chatgate - multi-provider LLM chat gateway",
		Long: `chatgate routes chat requests to OpenAI, Anthropic, Gemini or Ollama,
optionally augmenting them with passages from a retrieval service.

Run 'chatgate serve' to start the HTTP gateway or 'chatgate chat' for a
one-off request from the terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.chatgate/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "path to .env file (ignored if missing)")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "provider ID (openai, anthropic, gemini, ollama)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. gpt-4o)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newServeCommand())
	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newProvidersCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

func (a *App) initConfig() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("load %s: %w", a.envFile, err))
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.provider == "" {
		a.provider = cfg.DefaultProvider
	}

	a.logger = newLogger(a, cfg.LogLevel)
	return nil
}

func newLogger(a *App, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	if a.verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: lvl}))
}

// services is the wired gateway for one command invocation.
type services struct {
	dispatcher *gateway.Dispatcher
	registry   *providers.Registry
	retrieval  *retrieval.Client
}

// buildServices resolves credentials and wires registry, retrieval and
// dispatcher from the loaded configuration.
func (a *App) buildServices() (*services, error) {
	var store config.SecretStore
	if a.cfg.NeedsKeystore() {
		ks, err := a.newKeystore()
		if err != nil {
			return nil, exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
		}
		store = ks
	}

	pcfgs, err := a.cfg.ProviderConfigs(store)
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}

	svc := &services{registry: a.newRegistry(pcfgs, a.logger)}

	opts := []gateway.Option{
		gateway.WithLogger(a.logger),
		gateway.WithDefaultProvider(a.provider),
		gateway.WithCallTimeout(a.cfg.CallTimeout),
	}
	if a.cfg.Retrieval.TopK > 0 {
		opts = append(opts, gateway.WithTopK(a.cfg.Retrieval.TopK))
	}
	if a.cfg.Retrieval.Enabled() {
		var ropts []retrieval.Option
		if a.cfg.Retrieval.Timeout > 0 {
			ropts = append(ropts, retrieval.WithSearchTimeout(a.cfg.Retrieval.Timeout))
		}
		svc.retrieval = retrieval.NewClient(a.cfg.Retrieval.URL, ropts...)
		aug := retrieval.NewAugmenter(svc.retrieval, a.logger)
		opts = append(opts, gateway.WithAugmenter(aug, retrieval.BuildPrompt))
	}

	svc.dispatcher = gateway.New(svc.registry, opts...)
	return svc, nil
}
