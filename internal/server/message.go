package server

import "encoding/json"

// Envelope is the wire frame for every WebSocket message in both
// directions: a type tag and a type-specific payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is the server-to-client frame. The payload is marshalled along
// with the frame so event structs keep their own json tags.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound message types.
const (
	MsgAction = "action"
	MsgChat   = "chat"
	MsgPing   = "ping"
)

// MsgPong answers MsgPing.
const MsgPong = "pong"

// ActionRequest is the payload of an "action" message. Amount is the total
// bet for raises and ignored otherwise.
type ActionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ChatRequest is the payload of a "chat" message.
type ChatRequest struct {
	Message string `json:"message"`
}
