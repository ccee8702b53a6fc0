package signaling

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateHost  = errors.New("connection already hosts a room")
	ErrAlreadyInRoom  = errors.New("connection is hosting another room")
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidKey     = errors.New("invalid room key")
	ErrUnknownType    = errors.New("unknown message type")
	ErrUnknownCodec   = errors.New("unknown codec")
	ErrHubStopped     = errors.New("hub stopped")
	ErrMalformedFrame = errors.New("malformed frame")
)

// Error codes carried by the "error" event.
const (
	CodeInvalidRequest = "invalid-request"
	CodeDuplicateHost  = "duplicate-host"
	CodeAlreadyInRoom  = "already-in-room"
)

// ValidationError reports a request rejected at the decode boundary, before
// it reaches the hub.
type ValidationError struct {
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("invalid %s request: %s %s", e.Type, e.Field, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("invalid %s request: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("invalid %s request: %s", e.Type, e.Reason)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missingField(msgType, field string) *ValidationError {
	return &ValidationError{Type: msgType, Field: field, Reason: "is required"}
}
