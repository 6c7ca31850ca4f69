package tools

// MCP interop: the same registry exposed as a standard MCP stdio server so
// regular MCP clients can drive the todo board without the websocket
// channel. The handlers delegate to Registry.Call, so schema validation and
// the dashboard-attachment behavior are identical on both transports.

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTodoTools installs the todo tools onto an MCP server.
func RegisterTodoTools(srv *server.MCPServer, registry *Registry) {
	createTool := mcp.NewTool(
		"todo_create",
		mcp.WithDescription("Create a todo item"),
		mcp.WithString("title",
			mcp.Description("Todo title"),
			mcp.Required(),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Whether the todo is completed (defaults to false)"),
		),
	)
	srv.AddTool(createTool, makeMCPHandler(registry, "todo_create"))

	listTool := mcp.NewTool(
		"todo_list",
		mcp.WithDescription("List all todo items"),
	)
	srv.AddTool(listTool, makeMCPHandler(registry, "todo_list"))

	updateTool := mcp.NewTool(
		"todo_update",
		mcp.WithDescription("Update a todo item"),
		mcp.WithString("id",
			mcp.Description("Todo identifier"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Updated title"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Updated completion state"),
		),
	)
	srv.AddTool(updateTool, makeMCPHandler(registry, "todo_update"))

	deleteTool := mcp.NewTool(
		"todo_delete",
		mcp.WithDescription("Delete a todo item"),
		mcp.WithString("id",
			mcp.Description("Todo identifier to delete"),
			mcp.Required(),
		),
	)
	srv.AddTool(deleteTool, makeMCPHandler(registry, "todo_delete"))
}

// makeMCPHandler adapts one registry tool to the MCP handler signature.
func makeMCPHandler(registry *Registry, name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.Params.Arguments)

		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, rpcErr := registry.Call(ctx, name, args)

		if rpcErr != nil {
			return mcp.NewToolResultError(rpcErr.Message), nil
		}

		raw, err := json.Marshal(result)

		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	}
}
