package relay

// The relay bridges a rendered dashboard's sandboxed action messages back
// into tool calls. It runs in the hosting surface, never inside the
// document: the document posts a serializable Action and knows nothing
// about the channel. The relay and the document are two independent state
// machines connected only by that message contract.

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/uihost/todoboard/pkg/errors"
	"github.com/uihost/todoboard/pkg/ui"
)

// ToolCaller issues a tools/call request and returns its raw result. Both
// the in-process Channel and the websocket Client satisfy it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, *errors.RpcError)
}

type Relay struct {
	mu       sync.Mutex
	caller   ToolCaller
	notifier func(string)
	current  *ui.Embedded
}

type Option func(*Relay)

// WithNotifier sets the sink for notify actions and relay diagnostics.
func WithNotifier(fn func(string)) Option {
	return func(r *Relay) {
		r.notifier = fn
	}
}

func New(caller ToolCaller, opts ...Option) *Relay {
	relay := &Relay{
		caller: caller,
		notifier: func(message string) {
			log.Info("relay notification", "message", message)
		},
	}

	for _, opt := range opts {
		opt(relay)
	}

	return relay
}

// Handle processes one action to completion: request sent, response awaited
// and applied. The mutex makes processing strictly sequential, so a
// misbehaving document flooding the surface with actions cannot interleave
// replays. For tool actions the raw call result is returned; notify and
// unrecognized actions yield nil.
func (r *Relay) Handle(ctx context.Context, action Action) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch action.Type {
	case ActionTool:
		var payload ToolPayload

		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return nil, errors.ErrApplication.WithMessagef("invalid tool action payload: %v", err)
		}

		if payload.ToolName == "" {
			return nil, errors.ErrApplication.WithMessagef("tool action without toolName")
		}

		result, rpcErr := r.caller.CallTool(ctx, payload.ToolName, payload.Params)

		if rpcErr != nil {
			return nil, rpcErr
		}

		r.applyResult(result)

		return result, nil

	case ActionNotify:
		var payload NotifyPayload

		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return nil, errors.ErrApplication.WithMessagef("invalid notify action payload: %v", err)
		}

		r.notifier(payload.Message)

		return nil, nil
	}

	// Unrecognized kinds must not break the loop.
	log.Warn("ignoring unrecognized action", "type", action.Type)
	r.notifier("ignoring unrecognized action kind: " + action.Type)

	return nil, nil
}

// applyResult replaces the displayed resource with the one attached to the
// response. Always a full replacement, never a merge.
func (r *Relay) applyResult(result json.RawMessage) {
	var envelope struct {
		UI *ui.Embedded `json:"ui"`
	}

	if err := json.Unmarshal(result, &envelope); err != nil {
		log.Warn("tool result not inspectable for ui resource", "err", err)
		return
	}

	if envelope.UI != nil {
		r.current = envelope.UI
	}
}

// Current returns the resource the surface should be displaying.
func (r *Relay) Current() *ui.Embedded {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}
