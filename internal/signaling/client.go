package signaling

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024 // 64 KB - enough for WebRTC SDP messages

	// SendQueueSize is the outbound buffer per connection.
	SendQueueSize = 256
)

// Client is a wrapper for a single websocket connection.
type Client struct {
	// ID is the connection identifier peers use to address this client.
	ID string

	Hub *Hub

	// Conn is the websocket connection.
	Conn *websocket.Conn

	// Codec is the wire encoding negotiated for this connection.
	Codec Codec

	// RoomID is the room the client currently occupies. Only the hub
	// goroutine reads or writes it.
	RoomID string

	// Send is a buffered channel for all outbound messages. The hub writes
	// to it and closes it; WritePump drains it to the websocket.
	Send chan *Message

	Limits Limits
}

// NewClient creates a client for an upgraded connection.
func NewClient(id string, hub *Hub, conn *websocket.Conn, codec Codec, limits Limits) *Client {
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Codec:  codec,
		Send:   make(chan *Message, SendQueueSize),
		Limits: limits,
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
//
// The application runs ReadPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "conn", c.ID, "error", err)
			}
			return
		}

		req, err := ParseRequest(c.Codec, data, c.Limits)
		if err != nil {
			// The hub owns the send queue, so it answers invalid frames too.
			req = &Request{Type: TypeError, Err: err}
		}
		c.Hub.Submit(c, req)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
//
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := c.Codec.Marshal(message)
			if err != nil {
				slog.Error("failed to encode message", "conn", c.ID, "type", message.Type, "error", err)
				continue
			}
			if err := c.Conn.WriteMessage(c.Codec.FrameType(), data); err != nil {
				slog.Debug("websocket write failed", "conn", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
