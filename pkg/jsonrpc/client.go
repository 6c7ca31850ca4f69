package jsonrpc

// Client is the websocket counterpart of the Channel: it writes request
// envelopes with its own monotonic correlation ids and matches inbound
// response frames back to the waiting caller.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/uihost/todoboard/pkg/errors"
)

type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan *clientResponse
	closed  bool

	seq  atomic.Int64
	done chan struct{}
}

// clientResponse keeps the result raw so the caller decides what to decode
// it into.
type clientResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      json.RawMessage  `json:"id,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *errors.RpcError `json:"error,omitempty"`
}

// Dial connects to a websocket channel endpoint, e.g. "ws://host:3210/ws".
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)

	if err != nil {
		return nil, err
	}

	client := &Client{
		conn:    conn,
		pending: make(map[string]chan *clientResponse),
		done:    make(chan struct{}),
	}

	go client.readLoop()

	return client, nil
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, raw, err := c.conn.ReadMessage()

		if err != nil {
			c.failPending()
			return
		}

		var resp clientResponse

		if err := json.Unmarshal(raw, &resp); err != nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[string(resp.ID)]

		if ok {
			delete(c.pending, string(resp.ID))
		}
		c.mu.Unlock()

		if ok {
			ch <- &resp
		}
	}
}

func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Call issues one request and decodes the matching response's result into
// result (when non-nil). An error response comes back as *errors.RpcError.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	id := json.RawMessage(strconv.FormatInt(c.seq.Add(1), 10))

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
	}

	if params != nil {
		raw, err := json.Marshal(params)

		if err != nil {
			return err
		}

		req.Params = raw
	}

	ch := make(chan *clientResponse, 1)

	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("jsonrpc: connection closed")
	}

	c.pending[string(id)] = ch
	c.mu.Unlock()

	raw, err := json.Marshal(req)

	if err != nil {
		return err
	}

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, raw)
	c.writeMu.Unlock()

	if err != nil {
		c.mu.Lock()
		delete(c.pending, string(id))
		c.mu.Unlock()
		return err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, string(id))
		c.mu.Unlock()
		return ctx.Err()

	case resp, ok := <-ch:
		if !ok {
			return fmt.Errorf("jsonrpc: connection closed")
		}

		if resp.Error != nil {
			return resp.Error
		}

		if result != nil {
			return json.Unmarshal(resp.Result, result)
		}

		return nil
	}
}

// Initialize performs the handshake and returns the server's identity.
func (c *Client) Initialize(ctx context.Context) (InitializeResult, error) {
	var result InitializeResult

	err := c.Call(ctx, "initialize", map[string]any{}, &result)

	return result, err
}

// ListTools fetches the server's static tool catalog.
func (c *Client) ListTools(ctx context.Context) (json.RawMessage, error) {
	var result json.RawMessage

	err := c.Call(ctx, "tools/list", nil, &result)

	return result, err
}

// CallTool issues tools/call and hands back the raw result. It satisfies
// the relay's ToolCaller contract so a Go hosting surface can replay
// dashboard actions against a remote server.
func (c *Client) CallTool(
	ctx context.Context,
	name string,
	args json.RawMessage,
) (json.RawMessage, *errors.RpcError) {
	params := ToolCallParams{
		Name:      name,
		Arguments: args,
	}

	var result json.RawMessage

	if err := c.Call(ctx, "tools/call", params, &result); err != nil {
		if rpcErr, ok := err.(*errors.RpcError); ok {
			return nil, rpcErr
		}

		return nil, errors.ErrInternal.WithMessagef("%v", err)
	}

	return result, nil
}

func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}
