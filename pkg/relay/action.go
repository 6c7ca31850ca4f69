package relay

import "encoding/json"

// Action kinds a rendered dashboard may emit.
const (
	ActionTool   = "tool"
	ActionNotify = "notify"
)

// Action is the message a rendered dashboard posts to its hosting surface.
// It has no persisted state; the relay consumes it and moves on.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ToolPayload asks the host to replay a tool call.
type ToolPayload struct {
	ToolName string          `json:"toolName"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// NotifyPayload surfaces a message without triggering any tool call.
type NotifyPayload struct {
	Message string `json:"message"`
}
