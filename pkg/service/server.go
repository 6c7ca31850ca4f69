package service

// The websocket service binds protocol channels to real connections. One
// goroutine per connection reads frames and feeds them to that connection's
// channel, so processing is sequential per channel while any number of
// connections run concurrently against the shared registry.
//
// Two frame shapes arrive on the wire: JSON-RPC envelopes from a protocol
// client, and raw Action messages forwarded verbatim by a hosting page that
// displays the dashboard. The latter go through the connection's relay and
// come back as responses with server-assigned correlation ids.

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/uihost/todoboard/pkg/errors"
	"github.com/uihost/todoboard/pkg/jsonrpc"
	"github.com/uihost/todoboard/pkg/relay"
	"github.com/uihost/todoboard/pkg/tools"
)

//go:embed host.html
var hostPage []byte

type Server struct {
	registry *tools.Registry
	info     jsonrpc.ServerInfo
	upgrader websocket.Upgrader
	seq      atomic.Int64
}

func New(registry *tools.Registry, info jsonrpc.ServerInfo) *Server {
	return &Server{
		registry: registry,
		info:     info,
		upgrader: websocket.Upgrader{
			// The host page is served from this same process.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP surface: the host page, a health probe and the
// websocket channel endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)

	return mux
}

// Listen serves until the listener fails.
func (s *Server) Listen(addr string) error {
	log.Info("serving todo board", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(hostPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)

	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	defer conn.Close()

	log.Info("client connected", "remote", conn.RemoteAddr().String())

	channel := jsonrpc.NewChannel(s.registry, s.info)

	rl := relay.New(channel, relay.WithNotifier(func(message string) {
		log.Info("dashboard notification", "remote", conn.RemoteAddr().String(), "message", message)
	}))

	ctx := r.Context()

	for {
		_, raw, err := conn.ReadMessage()

		if err != nil {
			log.Info("client disconnected", "remote", conn.RemoteAddr().String())
			return
		}

		if resp := s.handleFrame(ctx, channel, rl, raw); resp != nil {
			if err := writeResponse(conn, resp); err != nil {
				log.Warn("write failed", "err", err)
				return
			}
		}
	}
}

// handleFrame routes one inbound frame. Frames with a "type" field are
// dashboard actions; everything else goes through JSON-RPC dispatch.
func (s *Server) handleFrame(
	ctx context.Context,
	channel *jsonrpc.Channel,
	rl *relay.Relay,
	raw []byte,
) *jsonrpc.Response {
	var peek struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(raw, &peek); err == nil && peek.Type != "" {
		return s.handleAction(ctx, rl, raw)
	}

	return channel.Dispatch(ctx, raw)
}

// handleAction replays a forwarded dashboard action. Actions carry no
// correlation id of their own, so responses get a server-assigned one.
func (s *Server) handleAction(ctx context.Context, rl *relay.Relay, raw []byte) *jsonrpc.Response {
	var action relay.Action

	if err := json.Unmarshal(raw, &action); err != nil {
		log.Warn("dropping malformed action frame", "err", err)
		return nil
	}

	result, err := rl.Handle(ctx, action)

	if err != nil {
		return &jsonrpc.Response{
			JSONRPC: "2.0",
			ID:      s.nextID(),
			Error:   asRpcError(err),
		}
	}

	if result == nil {
		return nil
	}

	return &jsonrpc.Response{
		JSONRPC: "2.0",
		ID:      s.nextID(),
		Result:  json.RawMessage(result),
	}
}

func (s *Server) nextID() json.RawMessage {
	return json.RawMessage(strconv.FormatInt(s.seq.Add(1), 10))
}

func asRpcError(err error) *errors.RpcError {
	if rpcErr, ok := err.(*errors.RpcError); ok {
		return rpcErr
	}

	return errors.ErrInternal.WithMessagef("%v", err)
}

func writeResponse(conn *websocket.Conn, resp *jsonrpc.Response) error {
	raw, err := json.Marshal(resp)

	if err != nil {
		return err
	}

	return conn.WriteMessage(websocket.TextMessage, raw)
}
