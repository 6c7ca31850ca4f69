package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/uihost/todoboard/pkg/stores"
)

func TestMCPHandlerCreatesTodo(t *testing.T) {
	store := stores.NewTodoStore()
	registry, err := NewTodoRegistry(store)

	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	handler := makeMCPHandler(registry, "todo_create")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"title": "write docs"}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty content")
	}

	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok || !strings.Contains(tc.Text, `"write docs"`) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(tc.Text, `"ui"`) {
		t.Fatalf("mcp result must carry the dashboard resource")
	}
	if len(store.List()) != 1 {
		t.Fatalf("no todo stored")
	}
}

func TestMCPHandlerSurfacesValidationErrors(t *testing.T) {
	registry, err := NewTodoRegistry(stores.NewTodoStore())

	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	handler := makeMCPHandler(registry, "todo_create")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
}
