package signaling

import (
	"crypto/subtle"
	"time"
)

func (h *Hub) handleRegister(c *Client) {
	if !h.clients.Add(c) {
		h.log.Error("duplicate connection id", "conn", c.ID)
		close(c.Send)
		return
	}
	h.log.Info("client registered", "conn", c.ID, "clients", h.clients.Len())

	// Browsers address each other by connection id, so tell the client its own.
	h.send(c, &Message{Type: TypeConnected, Payload: ConnectedPayload{ID: c.ID}})
}

// handleHost creates a room owned by c. A connection hosts at most one room
// and cannot host while it sits in another room.
func (h *Hub) handleHost(c *Client, p *HostRoomPayload) {
	if _, ok := h.rooms.FindByHost(c.ID); ok {
		h.sendError(c, CodeDuplicateHost, ErrDuplicateHost)
		return
	}
	if c.RoomID != "" {
		h.sendError(c, CodeAlreadyInRoom, ErrAlreadyInRoom)
		return
	}

	room, err := h.rooms.Create(p.Name, c.ID, h.opts.Now())
	if err != nil {
		h.sendError(c, CodeDuplicateHost, err)
		return
	}
	h.clients.Join(room.ID, c)
	c.RoomID = room.ID

	h.log.Info("room created", "room", room.ID, "name", room.Name, "rooms", h.rooms.Len())

	// The host is the only one who gets its key outside of rooms-list.
	h.send(c, &Message{Type: TypeRoomHosted, Payload: room})
}

func (h *Hub) handleListRooms(c *Client) {
	h.send(c, &Message{Type: TypeRoomsList, Payload: h.roomList()})
}

// handleJoin adds c to a room if the key matches. A wrong key and an unknown
// room are indistinguishable to the caller.
func (h *Hub) handleJoin(c *Client, p *JoinRoomPayload) {
	room, ok := h.rooms.FindByID(p.RoomID)
	if !ok || subtle.ConstantTimeCompare([]byte(room.Key), []byte(p.Key)) != 1 {
		reason := ErrInvalidKey
		if !ok {
			reason = ErrRoomNotFound
		}
		h.log.Debug("join rejected", "conn", c.ID, "room", p.RoomID, "error", reason)
		h.send(c, &Message{Type: TypeInvalidKey})
		return
	}

	if h.clients.IsMember(room.ID, c.ID) {
		h.send(c, &Message{Type: TypeRoomJoined, Payload: room})
		return
	}

	if c.RoomID != "" {
		if c.RoomID == c.ID {
			// still hosting its own room
			h.sendError(c, CodeAlreadyInRoom, ErrAlreadyInRoom)
			return
		}
		h.leave(c, c.RoomID)
	}

	h.clients.Join(room.ID, c)
	c.RoomID = room.ID

	h.log.Info("client joined room", "conn", c.ID, "room", room.ID)

	h.broadcast(room.ID, c.ID, &Message{Type: TypeUserJoined, Payload: UserPayload{UserID: c.ID}})
	h.send(c, &Message{Type: TypeRoomJoined, Payload: room})
}

// handleLeave removes c from a room's group. The room itself survives, even
// when its host leaves; only a host disconnect or expiry destroys it.
func (h *Hub) handleLeave(c *Client, p *LeaveRoomPayload) {
	if _, ok := h.rooms.FindByID(p.RoomID); !ok {
		return
	}
	h.leave(c, p.RoomID)
}

func (h *Hub) leave(c *Client, roomID string) {
	if !h.clients.Leave(roomID, c) {
		return
	}
	if c.RoomID == roomID {
		c.RoomID = ""
	}

	h.log.Info("client left room", "conn", c.ID, "room", roomID)

	h.broadcast(roomID, c.ID, &Message{Type: TypeUserLeft, Payload: UserPayload{UserID: c.ID}})
}

// handleDisconnect forgets c. If it hosted a room the room is destroyed and
// every client gets the new room list. Room peers are not sent user-left.
func (h *Hub) handleDisconnect(c *Client) {
	if !h.clients.Remove(c) {
		return
	}
	close(c.Send)

	h.log.Info("client unregistered", "conn", c.ID, "clients", h.clients.Len())

	room, ok := h.rooms.FindByHost(c.ID)
	if !ok {
		return
	}
	h.closeRoom(room)
	h.log.Info("room deleted", "room", room.ID, "reason", "host disconnected")

	h.broadcastRooms()
}

// handleSweep evicts expired rooms, then broadcasts the room list whether or
// not anything expired.
func (h *Hub) handleSweep(now time.Time) {
	for _, room := range h.rooms.Sweep(now, h.opts.RoomTTL) {
		h.closeGroup(room.ID)
		h.log.Info("room deleted", "room", room.ID, "reason", "expired", "age", now.Sub(room.CreatedAt).Round(time.Second))
	}
	h.broadcastRooms()
}

func (h *Hub) closeRoom(room Room) {
	h.rooms.Remove(room.ID)
	h.closeGroup(room.ID)
}

// closeGroup returns every member of a vanished room to idle.
func (h *Hub) closeGroup(roomID string) {
	for _, m := range h.clients.Disband(roomID) {
		if m.RoomID == roomID {
			m.RoomID = ""
		}
	}
}
