package signaling

import (
	"errors"
	"strings"
	"testing"

	"github.com/tj/assert"
)

func TestParseRequest(t *testing.T) {
	codec := JSONCodec{}
	limits := Limits{MaxNameLength: 8}

	parse := func(raw string) (*Request, error) {
		return ParseRequest(codec, []byte(raw), limits)
	}

	t.Run("host-room keeps the name as sent", func(t *testing.T) {
		req, err := parse(`{"type":"host-room","payload":{"name":"  Lab  "}}`)
		assert.NoError(t, err)
		assert.Equal(t, TypeHostRoom, req.Type)
		assert.Equal(t, &HostRoomPayload{Name: "  Lab  "}, req.Payload)
	})

	t.Run("get-rooms needs no payload", func(t *testing.T) {
		req, err := parse(`{"type":"get-rooms"}`)
		assert.NoError(t, err)
		assert.Nil(t, req.Payload)
	})

	t.Run("join-room", func(t *testing.T) {
		req, err := parse(`{"type":"join-room","payload":{"roomId":"abc","key":"k3x9"}}`)
		assert.NoError(t, err)
		assert.Equal(t, &JoinRoomPayload{RoomID: "abc", Key: "k3x9"}, req.Payload)
	})

	t.Run("call-user keeps the signal opaque", func(t *testing.T) {
		req, err := parse(`{"type":"call-user","payload":{"userToSignal":"b","callerID":"a","signal":{"type":"offer","sdp":"v=0"}}}`)
		assert.NoError(t, err)
		p := req.Payload.(*CallUserPayload)
		assert.Equal(t, "b", p.UserToSignal)
		assert.Equal(t, "a", p.CallerID)
		assert.Equal(t, map[string]any{"type": "offer", "sdp": "v=0"}, p.Signal)
	})

	t.Run("ice-candidate allows null candidate", func(t *testing.T) {
		req, err := parse(`{"type":"ice-candidate","payload":{"to":"b","candidate":null}}`)
		assert.NoError(t, err)
		assert.Nil(t, req.Payload.(*ICECandidatePayload).Candidate)
	})

	invalid := map[string]string{
		"not json":             `{"type":`,
		"missing type":         `{"payload":{}}`,
		"unknown type":         `{"type":"rename-room","payload":{}}`,
		"missing payload":      `{"type":"host-room"}`,
		"payload not object":   `{"type":"host-room","payload":"Lab"}`,
		"blank name":           `{"type":"host-room","payload":{"name":"   "}}`,
		"name too long":        `{"type":"host-room","payload":{"name":"ninechars"}}`,
		"name wrong type":      `{"type":"host-room","payload":{"name":42}}`,
		"join without room":    `{"type":"join-room","payload":{"key":"k"}}`,
		"leave without room":   `{"type":"leave-room","payload":{}}`,
		"call without target":  `{"type":"call-user","payload":{"signal":{}}}`,
		"call without signal":  `{"type":"call-user","payload":{"userToSignal":"b"}}`,
		"answer without to":    `{"type":"make-answer","payload":{"answer":{}}}`,
		"answer without body":  `{"type":"make-answer","payload":{"to":"b"}}`,
		"candidate without to": `{"type":"ice-candidate","payload":{"candidate":{}}}`,
	}
	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := parse(raw)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
		})
	}

	t.Run("unknown type wraps sentinel", func(t *testing.T) {
		_, err := parse(`{"type":"rename-room","payload":{}}`)
		assert.True(t, errors.Is(err, ErrUnknownType))
		assert.True(t, strings.Contains(err.Error(), "rename-room"))
	})
}

func TestParseRequestMsgpack(t *testing.T) {
	codec := MsgpackCodec{}
	data, err := codec.Marshal(map[string]any{
		"type": TypeMakeAnswer,
		"payload": map[string]any{
			"to":     "peer-a",
			"answer": map[string]any{"type": "answer", "sdp": "v=0"},
		},
	})
	assert.NoError(t, err)

	req, err := ParseRequest(codec, data, Limits{})
	assert.NoError(t, err)
	p := req.Payload.(*MakeAnswerPayload)
	assert.Equal(t, "peer-a", p.To)
	assert.Equal(t, map[string]any{"type": "answer", "sdp": "v=0"}, p.Answer)
}

func TestCodecFor(t *testing.T) {
	c, err := CodecFor("")
	assert.NoError(t, err)
	assert.Equal(t, CodecJSON, c.Name())

	c, err = CodecFor("msgpack")
	assert.NoError(t, err)
	assert.Equal(t, CodecMsgpack, c.Name())

	_, err = CodecFor("xml")
	assert.True(t, errors.Is(err, ErrUnknownCodec))
}

func TestMsgpackUsesJSONFieldNames(t *testing.T) {
	codec := MsgpackCodec{}
	data, err := codec.Marshal(&Message{Type: TypeUserJoined, Payload: UserPayload{UserID: "b"}})
	assert.NoError(t, err)

	var generic map[string]any
	assert.NoError(t, codec.Unmarshal(data, &generic))
	assert.Equal(t, TypeUserJoined, generic["type"])
	assert.Equal(t, map[string]any{"userId": "b"}, generic["payload"])
}

func TestRelayedPayloadKeepsNumbers(t *testing.T) {
	codec := JSONCodec{}
	raw := `{"type":"call-user","payload":{"userToSignal":"b","signal":{"id":9007199254740993,"ratio":0.1,"sdp":"v=0"}}}`

	req, err := ParseRequest(codec, []byte(raw), Limits{})
	assert.NoError(t, err)
	p := req.Payload.(*CallUserPayload)

	out, err := codec.Marshal(&Message{Type: TypeCallMade, Payload: CallMadePayload{Offer: p.Signal, Socket: "a"}})
	assert.NoError(t, err)
	assert.Equal(t, `{"type":"call-made","payload":{"offer":{"id":9007199254740993,"ratio":0.1,"sdp":"v=0"},"socket":"a"}}`, string(out))

	t.Run("msgpack peers get numbers", func(t *testing.T) {
		mp := MsgpackCodec{}
		data, err := mp.Marshal(&Message{Type: TypeCallMade, Payload: CallMadePayload{Offer: p.Signal, Socket: "a"}})
		assert.NoError(t, err)

		var decoded struct {
			Payload struct {
				Offer struct {
					ID    int64   `json:"id"`
					Ratio float64 `json:"ratio"`
				} `json:"offer"`
			} `json:"payload"`
		}
		assert.NoError(t, mp.Unmarshal(data, &decoded))
		assert.Equal(t, int64(9007199254740993), decoded.Payload.Offer.ID)
		assert.Equal(t, 0.1, decoded.Payload.Offer.Ratio)
	})
}

func TestJSONCodecRejectsTrailingData(t *testing.T) {
	var msg Message
	assert.Error(t, JSONCodec{}.Unmarshal([]byte(`{"type":"get-rooms"} {}`), &msg))
	assert.NoError(t, JSONCodec{}.Unmarshal([]byte(`{"type":"get-rooms"}`+"\n"), &msg))
}
