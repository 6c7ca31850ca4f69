package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uihost/todoboard/pkg/jsonrpc"
	"github.com/uihost/todoboard/pkg/service"
	"github.com/uihost/todoboard/pkg/stores"
	"github.com/uihost/todoboard/pkg/tools"
)

var (
	addrFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the todo board services",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	wsCmd = &cobra.Command{
		Use:   "ws",
		Short: "Serve the websocket channel and host page",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := tools.NewTodoRegistry(stores.NewTodoStore())

			if err != nil {
				return err
			}

			addr := addrFlag

			if addr == "" {
				addr = viper.GetString("server.addr")
			}

			return service.New(registry, serverInfo()).Listen(addr)
		},
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Serve the tool catalog as an MCP stdio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := tools.NewTodoRegistry(stores.NewTodoStore())

			if err != nil {
				return err
			}

			info := serverInfo()

			s := server.NewMCPServer(
				info.Name,
				info.Version,
				server.WithLogging(),
			)

			tools.RegisterTodoTools(s, registry)

			return server.ServeStdio(s)
		},
	}
)

func serverInfo() jsonrpc.ServerInfo {
	return jsonrpc.ServerInfo{
		Name:    viper.GetString("server.name"),
		Version: viper.GetString("server.version"),
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(wsCmd)
	serveCmd.AddCommand(stdioCmd)

	wsCmd.Flags().StringVarP(&addrFlag, "addr", "a", "", "Address to bind to (overrides config)")
}

var longServe = `
Serve the todo board over one of its transports.

Examples:
  # Serve the websocket channel and host page on the configured address
  todoboard serve ws

  # Serve on a specific address
  todoboard serve ws --addr :8080

  # Mirror the tool catalog to an MCP client over stdio
  todoboard serve stdio
`
