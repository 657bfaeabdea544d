// Command chatgate is a multi-provider LLM chat gateway.
//
// Providers are linked in by the provider_*.go files in this directory.
// Build with -tags no_<name> to leave one out, e.g.
//
//	go build -tags no_ollama,no_anthropic ./cmd/chatgate
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petal-labs/chatgate/cli/commands"
)

// ExitCoder is an interface for errors that have an exit code.
type ExitCoder interface {
	ExitCode() int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := commands.NewApp().ExecuteContext(ctx)
	cancel()

	if err == nil {
		return
	}

	var rep interface{ Reported() bool }
	if !errors.As(err, &rep) || !rep.Reported() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	var ec ExitCoder
	if errors.As(err, &ec) {
		os.Exit(ec.ExitCode())
	}
	os.Exit(1)
}
