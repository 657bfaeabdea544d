package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/gateway"
)

func (a *App) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat request through the gateway",
		Long: `Send a chat request through the gateway in-process, with the same
provider resolution and retrieval augmentation as the HTTP server.

Examples:
  chatgate chat --provider openai --model gpt-4o --message "Hello"
  chatgate chat --message "Hello" --stream
  chatgate chat --message "Hello" --param temperature=0.2 --no-rag --json`,
		Args: cobra.NoArgs,
		RunE: a.runChat,
	}

	cmd.Flags().StringVarP(&a.chatMessage, "message", "m", "", "User message (required)")
	cmd.Flags().StringArrayVar(&a.chatParams, "param", nil, "Provider parameter as key=value; values are parsed as JSON when possible")
	cmd.Flags().BoolVar(&a.chatNoRAG, "no-rag", false, "Skip retrieval augmentation")
	cmd.Flags().BoolVar(&a.chatStream, "stream", false, "Enable streaming output")

	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func (a *App) runChat(cmd *cobra.Command, args []string) error {
	params, err := parseParams(a.chatParams)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	svc, err := a.buildServices()
	if err != nil {
		return err
	}

	req := gateway.ChatRequest{
		Message:    a.chatMessage,
		Provider:   a.provider,
		Model:      a.model,
		Parameters: params,
		UseRAG:     !a.chatNoRAG,
	}

	if a.chatStream {
		return a.runStreamingChat(cmd, svc.dispatcher, req)
	}

	res, err := svc.dispatcher.Chat(cmd.Context(), req)
	if err != nil {
		return a.handleChatError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(res)
	}
	fmt.Fprintf(a.stdout, "> %s\n", req.Message)
	fmt.Fprintln(a.stdout, res.Response)
	return nil
}

func (a *App) runStreamingChat(cmd *cobra.Command, d *gateway.Dispatcher, req gateway.ChatRequest) error {
	frames, err := d.Stream(cmd.Context(), req)
	if err != nil {
		return a.handleChatError(err)
	}

	if a.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		var streamErr error
		for f := range frames {
			if f.IsError() {
				streamErr = errors.New(f.Error)
			}
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
		if streamErr != nil {
			return exitWithCode(ExitProvider, streamErr)
		}
		return cmd.Context().Err()
	}

	fmt.Fprintf(a.stdout, "> %s\n", req.Message)
	var streamErr error
	for f := range frames {
		if f.IsError() {
			streamErr = errors.New(f.Error)
			continue
		}
		fmt.Fprint(a.stdout, f.Token)
	}
	fmt.Fprintln(a.stdout)

	if streamErr != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", streamErr)
		return &exitError{code: ExitProvider, err: streamErr, reported: true}
	}
	return cmd.Context().Err()
}

func (a *App) outputJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseParams turns key=value flags into provider parameters. Values that
// parse as JSON keep their JSON type; anything else is a string.
func parseParams(flags []string) (core.Params, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	params := make(core.Params, len(flags))
	for _, kv := range flags {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: want key=value", kv)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		params[key] = v
	}
	return params, nil
}
