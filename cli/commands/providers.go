package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newProvidersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List compiled-in providers",
		Long: `List the providers compiled into this binary. With --check, each
provider is constructed and probed for availability.`,
		Args: cobra.NoArgs,
		RunE: a.runProviders,
	}
	cmd.Flags().BoolVar(&a.providersCheck, "check", false, "probe each provider's availability")
	return cmd
}

func (a *App) runProviders(cmd *cobra.Command, args []string) error {
	svc, err := a.buildServices()
	if err != nil {
		return err
	}

	names := svc.registry.List()
	var health map[string]bool
	if a.providersCheck {
		health = svc.registry.HealthAll(cmd.Context())
	}

	if a.jsonOutput {
		out := map[string]any{"providers": names, "default": a.provider}
		if health != nil {
			out["health"] = health
		}
		return a.outputJSON(out)
	}

	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No providers compiled in.")
		return nil
	}

	for _, name := range names {
		marker := " "
		if name == a.provider {
			marker = "*"
		}
		if health == nil {
			fmt.Fprintf(a.stdout, "%s %s\n", marker, name)
			continue
		}
		status := "unavailable"
		if health[name] {
			status = "ok"
		}
		fmt.Fprintf(a.stdout, "%s %-10s %s\n", marker, name, status)
	}
	return nil
}
