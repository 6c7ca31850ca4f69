package tools

// This file bundles the four built-in todo tools. Each handler is a thin
// adapter over the TodoStore; beyond its primary payload every result
// carries the full snapshot and a freshly rendered dashboard resource, so a
// displaying client always holds a view consistent with the store as of
// that call.

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/uihost/todoboard/pkg/errors"
	"github.com/uihost/todoboard/pkg/stores"
	"github.com/uihost/todoboard/pkg/ui"
)

type createArgs struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type updateArgs struct {
	ID        string  `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type deleteArgs struct {
	ID string `json:"id"`
}

// todoView is the wire form of a single record, stamped with its last
// modification time.
type todoView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UpdatedAt string `json:"updatedAt"`
}

// NewTodoRegistry builds the immutable tool catalog bound to the given
// store. Declaration order here is the order tools/list reports.
func NewTodoRegistry(store *stores.TodoStore) (*Registry, error) {
	create, err := NewDefinition(
		"todo_create",
		"Create a todo item",
		createInputSchema(),
		todoResultSchema(),
		makeCreateHandler(store),
	)

	if err != nil {
		return nil, err
	}

	list, err := NewDefinition(
		"todo_list",
		"List all todo items",
		&jsonschema.Schema{Type: "object"},
		todosResultSchema(),
		makeListHandler(store),
	)

	if err != nil {
		return nil, err
	}

	update, err := NewDefinition(
		"todo_update",
		"Update a todo item",
		updateInputSchema(),
		todoResultSchema(),
		makeUpdateHandler(store),
	)

	if err != nil {
		return nil, err
	}

	del, err := NewDefinition(
		"todo_delete",
		"Delete a todo item",
		deleteInputSchema(),
		deleteResultSchema(),
		makeDeleteHandler(store),
	)

	if err != nil {
		return nil, err
	}

	return NewRegistry(create, list, update, del), nil
}

func makeCreateHandler(store *stores.TodoStore) HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (any, *errors.RpcError) {
		var params createArgs

		if err := json.Unmarshal(args, &params); err != nil {
			return nil, errors.ErrApplication.WithMessagef("invalid arguments: %v", err)
		}

		if strings.TrimSpace(params.Title) == "" {
			return nil, errors.ErrApplication.WithMessagef("Missing required field: title")
		}

		todo := store.Create(params.Title, params.Completed)

		result := map[string]any{
			"todo": viewOf(store, todo),
		}

		if rpcErr := attachDashboard(store, result); rpcErr != nil {
			return nil, rpcErr
		}

		return result, nil
	}
}

func makeListHandler(store *stores.TodoStore) HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (any, *errors.RpcError) {
		result := map[string]any{}

		if rpcErr := attachDashboard(store, result); rpcErr != nil {
			return nil, rpcErr
		}

		return result, nil
	}
}

func makeUpdateHandler(store *stores.TodoStore) HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (any, *errors.RpcError) {
		var params updateArgs

		if err := json.Unmarshal(args, &params); err != nil {
			return nil, errors.ErrApplication.WithMessagef("invalid arguments: %v", err)
		}

		if strings.TrimSpace(params.ID) == "" {
			return nil, errors.ErrApplication.WithMessagef("Missing required field: id")
		}

		patch := stores.TodoPatch{
			Completed: params.Completed,
		}

		// A blank replacement title keeps the current one.
		if params.Title != nil && strings.TrimSpace(*params.Title) != "" {
			patch.Title = params.Title
		}

		todo, ok := store.Update(params.ID, patch)

		if !ok {
			return nil, errors.ErrTodoNotFound
		}

		result := map[string]any{
			"todo": viewOf(store, todo),
		}

		if rpcErr := attachDashboard(store, result); rpcErr != nil {
			return nil, rpcErr
		}

		return result, nil
	}
}

func makeDeleteHandler(store *stores.TodoStore) HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (any, *errors.RpcError) {
		var params deleteArgs

		if err := json.Unmarshal(args, &params); err != nil {
			return nil, errors.ErrApplication.WithMessagef("invalid arguments: %v", err)
		}

		if strings.TrimSpace(params.ID) == "" {
			return nil, errors.ErrApplication.WithMessagef("Missing required field: id")
		}

		if !store.Delete(params.ID) {
			return nil, errors.ErrTodoNotFound
		}

		result := map[string]any{
			"id":      params.ID,
			"deleted": true,
		}

		if rpcErr := attachDashboard(store, result); rpcErr != nil {
			return nil, rpcErr
		}

		return result, nil
	}
}

// attachDashboard adds the full snapshot and a freshly rendered dashboard
// to a tool result. The same snapshot backs both, so the embedded document
// can never show state the "todos" field does not.
func attachDashboard(store *stores.TodoStore, result map[string]any) *errors.RpcError {
	snapshot := store.List()

	embedded, err := ui.RenderDashboard(snapshot)

	if err != nil {
		return errors.ErrApplication.WithMessagef(
			"unable to render todo dashboard: %v", err,
		)
	}

	result["todos"] = snapshot
	result["ui"] = embedded

	return nil
}

func viewOf(store *stores.TodoStore, todo stores.Todo) todoView {
	view := todoView{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
	}

	if _, updated, ok := store.Get(todo.ID); ok {
		view.UpdatedAt = updated.Format(time.RFC3339)
	}

	return view
}

func createInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"title": {
				Type:        "string",
				Description: "Todo title",
			},
			"completed": {
				Type:        "boolean",
				Description: "Whether the todo is completed (defaults to false)",
			},
		},
		Required: []string{"title"},
	}
}

func updateInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id": {
				Type:        "string",
				Description: "Todo identifier",
			},
			"title": {
				Type:        "string",
				Description: "Updated title",
			},
			"completed": {
				Type:        "boolean",
				Description: "Updated completion state",
			},
		},
		Required: []string{"id"},
	}
}

func deleteInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id": {
				Type:        "string",
				Description: "Todo identifier to delete",
			},
		},
		Required: []string{"id"},
	}
}

func todoSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":        {Type: "string"},
			"title":     {Type: "string"},
			"completed": {Type: "boolean"},
			"updatedAt": {Type: "string"},
		},
		Required: []string{"id", "title", "completed"},
	}
}

func todoResultSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"todo": todoSchema(),
		},
		Required: []string{"todo"},
	}
}

func todosResultSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"todos": {
				Type:  "array",
				Items: todoSchema(),
			},
		},
		Required: []string{"todos"},
	}
}

func deleteResultSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":      {Type: "string"},
			"deleted": {Type: "boolean"},
		},
		Required: []string{"id", "deleted"},
	}
}
