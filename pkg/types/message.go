package types

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidTask    = errors.New("invalid task")
	ErrUnknownTool    = errors.New("unknown tool")
	ErrTaskTimeout    = errors.New("task timeout")
)

// Message is the envelope exchanged over the host websocket
type Message struct {
	ID        string          `json:"id,omitempty"`
	Type      string          `json:"type"`
	Content   string          `json:"content,omitempty"`
	TaskID    string          `json:"task_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MessageType constants
const (
	MessageTypeTask       = "task"
	MessageTypeTaskResult = "task_result"
	MessageTypeError      = "error"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
)

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(msgType string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes carried by ErrorMessage.
const (
	ErrorCodeBadMessage = "bad_message"
	ErrorCodeTaskFailed = "task_failed"
)
