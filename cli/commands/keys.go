package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/chatgate/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long: `Manage API keys in the encrypted keystore. Reference a stored key from
the config file with api_key_ref. Set CHATGATE_KEYSTORE_PASSPHRASE to
encrypt under a passphrase instead of a machine-derived key.`,
	}

	keysCmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Store an API key",
		Long:  `Store an API key. The key is prompted without echo when stdin is a terminal.`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysSet,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		Long:  `List all stored key names. Key values are never shown.`,
		Args:  cobra.NoArgs,
		RunE:  a.runKeysList,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysDelete,
	})

	return keysCmd
}

func (a *App) runKeysSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	fmt.Fprintf(a.stdout, "Enter API key for %s: ", name)

	apiKey, err := a.readSecret()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to read key: %w", err))
	}
	if apiKey == "" {
		return exitWithCode(ExitValidation, errors.New("API key cannot be empty"))
	}

	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}
	if err := ks.Set(name, apiKey); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	fmt.Fprintf(a.stdout, "API key for %s stored successfully.\n", name)
	return nil
}

// readSecret reads one line from stdin, without echo on a terminal.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	fmt.Fprintln(a.stdout)
	return strings.TrimSpace(line), nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	names, err := ks.List()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if a.jsonOutput {
		if names == nil {
			names = []string{}
		}
		return a.outputJSON(map[string]any{"keys": names})
	}

	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No API keys stored.")
		return nil
	}

	fmt.Fprintln(a.stdout, "Stored keys:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %s\n", name)
	}
	return nil
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	if err := ks.Delete(name); err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return exitWithCode(ExitValidation, fmt.Errorf("no key stored for %s", name))
		}
		return fmt.Errorf("failed to delete key: %w", err)
	}

	fmt.Fprintf(a.stdout, "API key for %s deleted.\n", name)
	return nil
}
