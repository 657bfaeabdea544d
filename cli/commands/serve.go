package commands

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/chatgate/server"
)

func (a *App) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Long: `Start the HTTP gateway.

Endpoints:
  POST /chat          single-shot chat
  POST /chat/stream   server-sent events
  GET  /chat/ws       WebSocket streaming
  GET  /health        provider and retrieval health
  GET  /providers     compiled-in providers

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
	cmd.Flags().StringVar(&a.serveAddr, "addr", "", "listen address (default from config, :8000)")
	return cmd
}

func (a *App) runServe(cmd *cobra.Command, args []string) error {
	svc, err := a.buildServices()
	if err != nil {
		return err
	}

	addr := a.serveAddr
	if addr == "" {
		addr = a.cfg.Addr
	}

	opts := []server.Option{
		server.WithAddr(addr),
		server.WithLogger(a.logger),
		server.WithVersion(Version),
	}
	if svc.retrieval != nil {
		opts = append(opts, server.WithRetrieval(svc.retrieval))
	}

	a.logger.Info("providers compiled in", "providers", svc.registry.List(), "default", a.provider)
	return server.New(svc.dispatcher, svc.registry, opts...).Start(cmd.Context())
}
