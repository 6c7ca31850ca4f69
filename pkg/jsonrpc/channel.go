package jsonrpc

// Channel frames, correlates and dispatches JSON-RPC messages for one
// connection. Each channel processes inbound frames sequentially relative
// to itself; many channels may run concurrently against the shared registry
// and its store. Request-level failures never tear the channel down.

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/uihost/todoboard/pkg/errors"
	"github.com/uihost/todoboard/pkg/tools"
)

// ProtocolVersion is reported by the initialize handshake.
const ProtocolVersion = "1.0"

type Channel struct {
	registry *tools.Registry
	info     ServerInfo
}

func NewChannel(registry *tools.Registry, info ServerInfo) *Channel {
	return &Channel{
		registry: registry,
		info:     info,
	}
}

// Dispatch handles one raw inbound frame. A nil response means the frame
// was dropped: either it was not valid JSON or it carried no correlation id
// to answer to. Dropped frames are logged, never fatal.
func (c *Channel) Dispatch(ctx context.Context, raw []byte) *Response {
	var req Request

	if err := json.Unmarshal(raw, &req); err != nil {
		log.Warn("dropping malformed frame", "err", err)
		return nil
	}

	if !hasID(req.ID) {
		log.Warn("dropping request without correlation id", "method", req.Method)
		return nil
	}

	return c.Handle(ctx, &req)
}

// Handle dispatches a parsed request by method name. The response echoes
// the request's correlation id.
func (c *Channel) Handle(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" {
		return newErrorResponse(req.ID, errors.ErrInvalidRequest)
	}

	switch req.Method {
	case "initialize":
		return newResultResponse(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      c.info,
		})

	case "tools/list":
		return newResultResponse(req.ID, ToolListResult{
			Tools: c.registry.Definitions(),
		})

	case "tools/call":
		var params ToolCallParams

		if err := json.Unmarshal(req.Params, &params); err != nil {
			return newErrorResponse(req.ID, errors.ErrApplication.WithMessagef(
				"invalid tools/call params: %v", err,
			))
		}

		result, rpcErr := c.registry.Call(ctx, params.Name, params.Arguments)

		if rpcErr != nil {
			return newErrorResponse(req.ID, rpcErr)
		}

		return newResultResponse(req.ID, result)
	}

	return newErrorResponse(req.ID, errors.ErrMethodNotFound.WithMessagef(
		"Unknown method: %s", req.Method,
	))
}

// CallTool lets in-process components (the action relay) replay tool calls
// through the same path a remote tools/call request takes.
func (c *Channel) CallTool(
	ctx context.Context,
	name string,
	args json.RawMessage,
) (json.RawMessage, *errors.RpcError) {
	result, rpcErr := c.registry.Call(ctx, name, args)

	if rpcErr != nil {
		return nil, rpcErr
	}

	raw, err := json.Marshal(result)

	if err != nil {
		return nil, errors.ErrInternal.WithMessagef("unable to serialize result: %v", err)
	}

	return raw, nil
}

func hasID(id json.RawMessage) bool {
	return len(id) > 0 && !bytes.Equal(id, []byte("null"))
}

func newResultResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func newErrorResponse(id json.RawMessage, e *errors.RpcError) *Response {
	if e == nil {
		e = errors.ErrInternal
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
