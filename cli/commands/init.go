package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatgate/cli/config"
)

func (a *App) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter configuration file",
		Long: `Write a starter configuration file for the gateway.

The file defaults to ~/.chatgate/config.yaml; a path ending in .toml gets
TOML syntax. Existing files are kept unless --force is given.

Example:
  chatgate init
  chatgate init ./chatgate.toml --provider ollama`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runInit,
	}
	cmd.Flags().BoolVar(&a.initForce, "force", false, "overwrite an existing file")
	return cmd
}

func (a *App) runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	provider := a.initProvider
	if cmd.Flags().Changed("provider") {
		provider = a.provider
	}
	if !knownProvider(provider) {
		return exitWithCode(ExitValidation, fmt.Errorf("unknown provider %q: want one of %s", provider, strings.Join(starterProviders, ", ")))
	}

	if _, err := os.Stat(path); err == nil && !a.initForce {
		return exitWithCode(ExitValidation, fmt.Errorf("%s already exists (use --force to overwrite)", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmpl := yamlTemplate
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		tmpl = tomlTemplate
	}
	if err := generateFile(path, tmpl, templateData{Provider: provider}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(a.stdout, "Wrote %s\n\n", path)
	fmt.Fprintln(a.stdout, "Next steps:")
	if env := envVarForProvider(provider); env != "" {
		fmt.Fprintf(a.stdout, "  export %s=<your-key>   (or: chatgate keys set %s)\n", env, provider)
	}
	fmt.Fprintf(a.stdout, "  chatgate serve --config %s\n", path)
	return nil
}

var starterProviders = []string{"anthropic", "gemini", "ollama", "openai"}

func knownProvider(name string) bool {
	for _, p := range starterProviders {
		if p == name {
			return true
		}
	}
	return false
}

type templateData struct {
	Provider string
}

var templateFuncs = template.FuncMap{
	"envVar":       envVarForProvider,
	"defaultModel": defaultModel,
}

func generateFile(path string, tmplContent string, data templateData) error {
	tmpl, err := template.New("file").Funcs(templateFuncs).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// envVarForProvider returns the credential variable a provider reads, or ""
// for providers that need none.
func envVarForProvider(provider string) string {
	if provider == "ollama" {
		return ""
	}
	return strings.ToUpper(provider) + "_API_KEY"
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-3.5-turbo"
	case "anthropic":
		return "claude-3-5-sonnet-20241022"
	case "gemini":
		return "gemini-2.5-flash"
	case "ollama":
		return "llama3"
	default:
		return ""
	}
}

// Templates

var yamlTemplate = `# chatgate configuration
addr: ":8000"
default_provider: {{.Provider}}
log_level: info
# call_timeout: 60s

retrieval:
  url: http://localhost:8001
  top_k: 3
  # disabled: true

# Credentials: api_key, or api_key_ref naming a 'chatgate keys set' entry.
# Without either, each provider reads its environment variable.
providers:
  {{.Provider}}:
{{- if envVar .Provider}}
    api_key_ref: {{.Provider}}
{{- else}}
    base_url: http://localhost:11434
{{- end}}
    default_model: {{defaultModel .Provider}}
`

var tomlTemplate = `# chatgate configuration
addr = ":8000"
default_provider = "{{.Provider}}"
log_level = "info"
# call_timeout = "60s"

[retrieval]
url = "http://localhost:8001"
top_k = 3
# disabled = true

# Credentials: api_key, or api_key_ref naming a 'chatgate keys set' entry.
# Without either, each provider reads its environment variable.
[providers.{{.Provider}}]
{{- if envVar .Provider}}
api_key_ref = "{{.Provider}}"
{{- else}}
base_url = "http://localhost:11434"
{{- end}}
default_model = "{{defaultModel .Provider}}"
`
