package signaling

import (
	"strings"
	"unicode/utf8"
)

// Client to server message types
const (
	TypeHostRoom     = "host-room"
	TypeGetRooms     = "get-rooms"
	TypeJoinRoom     = "join-room"
	TypeLeaveRoom    = "leave-room"
	TypeCallUser     = "call-user"
	TypeMakeAnswer   = "make-answer"
	TypeICECandidate = "ice-candidate"
)

// Server to client message types. ice-candidate is shared with the request.
const (
	TypeConnected  = "connected"
	TypeRoomHosted = "room-hosted"
	TypeRoomsList  = "rooms-list"
	TypeRoomJoined = "room-joined"
	TypeInvalidKey = "invalid-key"
	TypeUserJoined = "user-joined"
	TypeUserLeft   = "user-left"
	TypeCallMade   = "call-made"
	TypeAnswerMade = "answer-made"
	TypeError      = "error"
)

// Message is the envelope for every websocket frame in both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type HostRoomPayload struct {
	Name string `json:"name"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	Key    string `json:"key"`
}

type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

// CallUserPayload carries an offer. Signal is opaque.
type CallUserPayload struct {
	UserToSignal string `json:"userToSignal"`
	CallerID     string `json:"callerID"`
	Signal       any    `json:"signal"`
}

type MakeAnswerPayload struct {
	To     string `json:"to"`
	Answer any    `json:"answer"`
}

// ICECandidatePayload may carry a nil candidate, which browsers use to
// signal end of gathering.
type ICECandidatePayload struct {
	To        string `json:"to"`
	Candidate any    `json:"candidate"`
}

type ConnectedPayload struct {
	ID string `json:"id"`
}

type UserPayload struct {
	UserID string `json:"userId"`
}

type CallMadePayload struct {
	Offer  any    `json:"offer"`
	Socket string `json:"socket"`
}

type AnswerMadePayload struct {
	Answer any    `json:"answer"`
	Socket string `json:"socket"`
}

type CandidatePayload struct {
	Candidate any    `json:"candidate"`
	Socket    string `json:"socket"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Request is a validated client message on its way to the hub.
type Request struct {
	Type string

	// Payload is one of the *...Payload request types, nil for get-rooms.
	Payload any

	// Err is set when the frame failed validation; the hub answers it with
	// an error event instead of dispatching it.
	Err error

	client *Client
}

// Limits bounds untrusted request fields.
type Limits struct {
	MaxNameLength int
}

// ParseRequest decodes one frame with the connection's codec and validates
// its shape. Any failure is a *ValidationError.
func ParseRequest(codec Codec, data []byte, limits Limits) (*Request, error) {
	var msg Message
	if err := codec.Unmarshal(data, &msg); err != nil {
		return nil, &ValidationError{Type: "unknown", Err: ErrMalformedFrame}
	}
	if msg.Type == "" {
		return nil, missingField("unknown", "type")
	}

	req := &Request{Type: msg.Type}
	switch msg.Type {
	case TypeGetRooms:
		return req, nil

	case TypeHostRoom:
		var p HostRoomPayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		// The name is shown as sent; only a blank one is refused.
		if strings.TrimSpace(p.Name) == "" {
			return nil, missingField(msg.Type, "name")
		}
		if limits.MaxNameLength > 0 && utf8.RuneCountInString(p.Name) > limits.MaxNameLength {
			return nil, &ValidationError{Type: msg.Type, Field: "name", Reason: "is too long"}
		}
		req.Payload = &p

	case TypeJoinRoom:
		var p JoinRoomPayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		if p.RoomID == "" {
			return nil, missingField(msg.Type, "roomId")
		}
		req.Payload = &p

	case TypeLeaveRoom:
		var p LeaveRoomPayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		if p.RoomID == "" {
			return nil, missingField(msg.Type, "roomId")
		}
		req.Payload = &p

	case TypeCallUser:
		var p CallUserPayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		if p.UserToSignal == "" {
			return nil, missingField(msg.Type, "userToSignal")
		}
		if p.Signal == nil {
			return nil, missingField(msg.Type, "signal")
		}
		req.Payload = &p

	case TypeMakeAnswer:
		var p MakeAnswerPayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		if p.To == "" {
			return nil, missingField(msg.Type, "to")
		}
		if p.Answer == nil {
			return nil, missingField(msg.Type, "answer")
		}
		req.Payload = &p

	case TypeICECandidate:
		var p ICECandidatePayload
		if err := decodePayload(codec, msg, &p); err != nil {
			return nil, err
		}
		if p.To == "" {
			return nil, missingField(msg.Type, "to")
		}
		req.Payload = &p

	default:
		return nil, &ValidationError{Type: msg.Type, Err: ErrUnknownType}
	}

	return req, nil
}

func decodePayload(codec Codec, msg Message, dst any) error {
	if msg.Payload == nil {
		return missingField(msg.Type, "payload")
	}
	if _, ok := msg.Payload.(map[string]any); !ok {
		return &ValidationError{Type: msg.Type, Field: "payload", Reason: "must be an object"}
	}
	if err := convert(codec, msg.Payload, dst); err != nil {
		return &ValidationError{Type: msg.Type, Err: err}
	}
	return nil
}
