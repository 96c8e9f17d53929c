// Package jsonrpc provides the JSON-RPC 2.0 envelope used on streaming
// connections: outbound requests carrying a UUID id, and inbound messages that
// may be either a response to one of those requests or a server notification.
package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Version is the protocol version set on every outbound request.
const Version = "2.0"

// ErrProviderReturnedError indicates that the remote JSON-RPC server returned an error response.
var ErrProviderReturnedError = errors.New("provider error")

// Request is an outbound JSON-RPC 2.0 request.
type Request struct {
	JsonRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// NewRequest builds a request for method with a freshly generated UUID id.
func NewRequest(method string, params ...any) Request {
	return Request{
		JsonRPC: Version,
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
}

// Error is the error object of a JSON-RPC response.
type Error struct {
	Code    int    `json:"code"`    // JSON-RPC 2.0 error code or a server-defined one
	Message string `json:"message"` // Human-readable error message
}

// Message is an inbound JSON-RPC 2.0 message. Responses carry an ID and either
// Result or Error; notifications carry Method and Params.
type Message struct {
	JsonRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Decode parses a single inbound message.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, err
	}

	return msg, nil
}

// Err returns an error if the message includes a JSON-RPC error object.
// It wraps ErrProviderReturnedError with the provided error code and message.
func (m Message) Err() error {
	if m.Error == nil {
		return nil
	}

	return fmt.Errorf("%w: [%d] - %s", ErrProviderReturnedError, m.Error.Code, m.Error.Message)
}

// IsNotification reports whether the message is a server-initiated notification.
func (m Message) IsNotification() bool {
	return m.Method != ""
}

// IsResponseTo reports whether the message answers the request with the given id.
func (m Message) IsResponseTo(id string) bool {
	if len(m.ID) == 0 {
		return false
	}

	var got string
	if err := json.Unmarshal(m.ID, &got); err != nil {
		return false
	}

	return got == id
}

// NotificationResult returns the "result" member of a subscription
// notification's params, e.g. {"subscription": 7, "result": {...}}.
func (m Message) NotificationResult() (json.RawMessage, error) {
	var params struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(m.Params, &params); err != nil {
		return nil, fmt.Errorf("notification params: %w", err)
	}

	if len(params.Result) == 0 {
		return nil, errors.New("notification params: missing result")
	}

	return params.Result, nil
}
