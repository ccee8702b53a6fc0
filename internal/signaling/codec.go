package signaling

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec names double as websocket subprotocols.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Subprotocols lists the codecs a client may negotiate, preferred first.
var Subprotocols = []string{CodecJSON, CodecMsgpack}

// Codec encodes messages for one connection. Both codecs use the json struct
// tags so payload field names are identical on the wire.
type Codec interface {
	Name() string

	// FrameType is the websocket frame type messages are written with.
	FrameType() int

	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CodecFor returns the codec for a negotiated subprotocol. An empty name
// selects JSON, which is what browsers get when they ask for nothing.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// convert re-encodes a loosely decoded payload into a typed struct.
func convert(c Codec, src, dst any) error {
	data, err := c.Marshal(src)
	if err != nil {
		return err
	}
	return c.Unmarshal(data, dst)
}

// JSONCodec keeps numbers as json.Number so relayed payloads are forwarded
// digit for digit.
type JSONCodec struct{}

func (JSONCodec) Name() string                  { return CodecJSON }
func (JSONCodec) FrameType() int                { return websocket.TextMessage }
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string   { return CodecMsgpack }
func (MsgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(plainNumbers(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// plainNumbers swaps json.Number values for Go numbers, so a payload that
// arrived from a JSON peer reaches msgpack peers as numbers, not strings.
func plainNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return u
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = plainNumbers(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = plainNumbers(val)
		}
		return out
	case *Message:
		if x == nil {
			return x
		}
		m := *x
		m.Payload = plainNumbers(x.Payload)
		return &m
	case Message:
		x.Payload = plainNumbers(x.Payload)
		return x
	case CallMadePayload:
		x.Offer = plainNumbers(x.Offer)
		return x
	case AnswerMadePayload:
		x.Answer = plainNumbers(x.Answer)
		return x
	case CandidatePayload:
		x.Candidate = plainNumbers(x.Candidate)
		return x
	default:
		return v
	}
}
