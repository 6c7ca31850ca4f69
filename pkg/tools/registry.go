package tools

// The registry is the static catalog of named operations the protocol
// channel dispatches into. It is built once at startup and passed around by
// reference; nothing mutates it afterwards. Argument validation is purely
// structural (required fields, types) and happens here so individual
// handlers only ever see schema-valid input.

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/uihost/todoboard/pkg/errors"
)

// HandlerFunc executes one tool call. Arguments have already passed schema
// validation when the handler runs.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, *errors.RpcError)

// Definition describes one tool: its wire-visible contract plus the bound
// handler. The handler and resolved schema are deliberately unexported so a
// Definition marshals to exactly the catalog entry a client sees.
type Definition struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	InputSchema  *jsonschema.Schema `json:"inputSchema"`
	OutputSchema *jsonschema.Schema `json:"outputSchema"`

	handler  HandlerFunc
	resolved *jsonschema.Resolved
}

// NewDefinition builds a Definition and resolves its input schema for
// validation. It fails when the schema itself is malformed.
func NewDefinition(
	name string,
	description string,
	inputSchema *jsonschema.Schema,
	outputSchema *jsonschema.Schema,
	handler HandlerFunc,
) (Definition, error) {
	resolved, err := inputSchema.Resolve(nil)

	if err != nil {
		return Definition{}, err
	}

	return Definition{
		Name:         name,
		Description:  description,
		InputSchema:  inputSchema,
		OutputSchema: outputSchema,
		handler:      handler,
		resolved:     resolved,
	}, nil
}

// Registry holds tool definitions in declaration order.
type Registry struct {
	defs  []Definition
	index map[string]int
}

func NewRegistry(defs ...Definition) *Registry {
	registry := &Registry{
		defs:  defs,
		index: make(map[string]int, len(defs)),
	}

	for i, def := range defs {
		registry.index[def.Name] = i
	}

	return registry
}

// Definitions returns the catalog in declaration order. The returned slice
// is a copy; the registry itself stays immutable.
func (registry *Registry) Definitions() []Definition {
	defs := make([]Definition, len(registry.defs))
	copy(defs, registry.defs)
	return defs
}

// Call validates the raw arguments against the named tool's input schema
// and invokes its handler. Unknown tools and invalid arguments surface as
// application errors; the channel stays usable either way.
func (registry *Registry) Call(
	ctx context.Context,
	name string,
	args json.RawMessage,
) (any, *errors.RpcError) {
	i, ok := registry.index[name]

	if !ok {
		return nil, errors.ErrApplication.WithMessagef("Unknown tool: %s", name)
	}

	def := registry.defs[i]

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	var instance any

	if err := json.Unmarshal(args, &instance); err != nil {
		return nil, errors.ErrApplication.WithMessagef(
			"invalid arguments for %s: %v", name, err,
		)
	}

	if err := def.resolved.Validate(instance); err != nil {
		return nil, errors.ErrApplication.WithMessagef(
			"invalid arguments for %s: %v", name, err,
		)
	}

	return def.handler(ctx, args)
}
