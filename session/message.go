// Package session implements the per-connection state machine driving the
// streaming protocol: message classification, dispatch, response emission,
// and the process-wide registry of live connections.
package session

import (
	"encoding/json"
	"fmt"
)

// Inbound message types.
const (
	TypeFrame            = "frame"
	TypeSetBackground    = "set_background"
	TypeChangeBackground = "change_background" // accepted alias of set_background
	TypePing             = "ping"
)

// Outbound message types.
const (
	TypeProcessedFrame    = "processed_frame"
	TypeBackgroundChanged = "background_changed"
	TypePong              = "pong"
	TypeError             = "error"
)

// MessageKind is the classification of one inbound message.
type MessageKind int

// Classification results. Every inbound message maps to exactly one kind.
const (
	KindUnrecognized MessageKind = iota
	KindFrame
	KindBackgroundChange
	KindPing
)

// String returns the metric label for the kind.
func (k MessageKind) String() string {
	switch k {
	case KindFrame:
		return TypeFrame
	case KindBackgroundChange:
		return TypeSetBackground
	case KindPing:
		return TypePing
	default:
		return "unrecognized"
	}
}

// Inbound is the decoded form of one client message. One JSON object per
// WebSocket text message.
type Inbound struct {
	Type string `json:"type"`

	// Data carries base64-encoded still-image bytes for frame messages.
	Data string `json:"data,omitempty"`

	// Background is the requested id for background-change messages.
	Background string `json:"background,omitempty"`
}

// Classify parses raw message bytes and assigns a kind. A parse failure or an
// unknown type yields KindUnrecognized together with the reason; the caller
// renders it into an error response rather than closing the connection.
func Classify(data []byte) (MessageKind, *Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return KindUnrecognized, nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch msg.Type {
	case TypeFrame:
		return KindFrame, &msg, nil
	case TypeSetBackground, TypeChangeBackground:
		return KindBackgroundChange, &msg, nil
	case TypePing:
		return KindPing, &msg, nil
	default:
		return KindUnrecognized, &msg, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// ProcessedFrame is the response to a frame message: the composited frame and
// the background id that was in effect when it was rendered.
type ProcessedFrame struct {
	Type       string `json:"type"`
	Data       string `json:"data"`
	Background string `json:"background"`
}

// BackgroundChanged acknowledges a background-change request.
type BackgroundChanged struct {
	Type       string `json:"type"`
	Background string `json:"background"`
	Success    bool   `json:"success"`
}

// Pong answers a ping.
type Pong struct {
	Type string `json:"type"`
}

// ErrorMessage reports a recoverable per-message failure. Receiving one does
// not mean the connection is closing.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newError(reason string) *ErrorMessage {
	return &ErrorMessage{Type: TypeError, Message: reason}
}
