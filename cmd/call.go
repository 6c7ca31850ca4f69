package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uihost/todoboard/pkg/jsonrpc"
)

var (
	callURLFlag  string
	callArgsFlag string

	callCmd = &cobra.Command{
		Use:   "call <tool>",
		Short: "Issue a one-shot tool call against a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := jsonrpc.Dial(ctx, callURLFlag)

			if err != nil {
				return err
			}

			defer client.Close()

			if _, err = client.Initialize(ctx); err != nil {
				return err
			}

			result, rpcErr := client.CallTool(ctx, args[0], json.RawMessage(callArgsFlag))

			if rpcErr != nil {
				return rpcErr
			}

			out, err := json.MarshalIndent(result, "", "  ")

			if err != nil {
				return err
			}

			fmt.Println(string(out))

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVarP(&callURLFlag, "url", "u", "ws://localhost:3210/ws", "Websocket endpoint of the server")
	callCmd.Flags().StringVar(&callArgsFlag, "args", "{}", "Tool arguments as a JSON object")
}
