package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uihost/todoboard/pkg/errors"
	"github.com/uihost/todoboard/pkg/jsonrpc"
	"github.com/uihost/todoboard/pkg/stores"
	"github.com/uihost/todoboard/pkg/tools"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	registry, err := tools.NewTodoRegistry(stores.NewTodoStore())
	require.NoError(t, err)

	srv := New(registry, jsonrpc.ServerInfo{Name: "todoboard", Version: "test"})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestServerServesHostPageAndHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()

	assert.Equal(t, http.StatusOK, health.StatusCode)

	missing, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer missing.Body.Close()

	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestClientRoundTrip(t *testing.T) {
	_, wsURL := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := jsonrpc.Dial(ctx, wsURL)
	require.NoError(t, err)
	defer client.Close()

	info, err := client.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "todoboard", info.ServerInfo.Name)
	assert.Equal(t, jsonrpc.ProtocolVersion, info.ProtocolVersion)

	raw, err := client.ListTools(ctx)
	require.NoError(t, err)

	var listed struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}

	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed.Tools, 4)
	assert.Equal(t, "todo_create", listed.Tools[0].Name)
	assert.NotEmpty(t, listed.Tools[0].InputSchema)

	result, rpcErr := client.CallTool(ctx, "todo_create", json.RawMessage(`{"title":"Buy milk"}`))
	require.Nil(t, rpcErr)

	var created struct {
		Todo struct {
			ID string `json:"id"`
		} `json:"todo"`
		UI struct {
			Resource struct {
				Text string `json:"text"`
			} `json:"resource"`
		} `json:"ui"`
	}

	require.NoError(t, json.Unmarshal(result, &created))
	assert.NotEmpty(t, created.Todo.ID)
	assert.Contains(t, created.UI.Resource.Text, "Buy milk")
}

func TestClientSurfacesApplicationErrors(t *testing.T) {
	_, wsURL := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := jsonrpc.Dial(ctx, wsURL)
	require.NoError(t, err)
	defer client.Close()

	_, rpcErr := client.CallTool(ctx, "todo_update", json.RawMessage(`{"id":"missing"}`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, -32001, rpcErr.Code)

	var methodErr *errors.RpcError

	callErr := client.Call(ctx, "frobnicate", nil, nil)
	require.ErrorAs(t, callErr, &methodErr)
	assert.Equal(t, -32601, methodErr.Code)

	// The connection survives request-level errors.
	_, rpcErr = client.CallTool(ctx, "todo_list", nil)
	assert.Nil(t, rpcErr)
}

func TestActionFramesAreRelayed(t *testing.T) {
	_, wsURL := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readResponse := func() map[string]any {
		t.Helper()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg map[string]any
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	}

	// Seed a record through a regular JSON-RPC call.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"todo_create","arguments":{"title":"Buy milk"}}}`,
	)))

	created := readResponse()
	assert.Equal(t, float64(1), created["id"])

	// Replay a dashboard action through the relay; the response carries a
	// server-assigned id and a fresh resource.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"type":"tool","payload":{"toolName":"todo_list","params":{}}}`,
	)))

	relayed := readResponse()
	require.NotContains(t, relayed, "error")
	assert.NotNil(t, relayed["id"])

	result, ok := relayed["result"].(map[string]any)
	require.True(t, ok)

	embedded, ok := result["ui"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "resource", embedded["type"])

	resource, ok := embedded["resource"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, resource["text"], "Buy milk")

	// Unknown action kinds produce no response and do not break the loop.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"type":"teleport","payload":{}}`,
	)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"type":"notify","payload":{"message":"hi"}}`,
	)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"jsonrpc":"2.0","id":2,"method":"initialize","params":{}}`,
	)))

	final := readResponse()
	assert.Equal(t, float64(2), final["id"])
}

func TestMalformedFramesAreDroppedSilently(t *testing.T) {
	_, wsURL := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{broken`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","method":"initialize"}`)))

	// The channel is still alive afterwards.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(
		`{"jsonrpc":"2.0","id":9,"method":"initialize","params":{}}`,
	)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, float64(9), msg["id"])
}
