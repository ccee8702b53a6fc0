package signaling

import "time"

// Room is one hosting session. Rooms are immutable once created.
type Room struct {
	// ID is the room identity. It always equals HostID: a connection hosts at
	// most one room and the room dies with that connection.
	ID string `json:"id"`

	// Name is supplied by the host and never interpreted.
	Name string `json:"name"`

	HostID string `json:"host"`

	// Key is the shared secret required to join. Empty when redacted.
	Key string `json:"key,omitempty"`

	CreatedAt time.Time `json:"timestamp"`
}

// Expired reports whether the room has lived for at least ttl at now.
func (r Room) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CreatedAt) >= ttl
}

func (r Room) redacted() Room {
	r.Key = ""
	return r
}

// RoomTable is the authoritative set of active rooms, keyed by host
// connection id and kept in insertion order.
//
// RoomTable is not safe for concurrent use; the Hub goroutine owns it.
type RoomTable struct {
	keys  KeyGenerator
	order []string
	rooms map[string]Room
}

// NewRoomTable creates an empty table drawing join keys from keys.
func NewRoomTable(keys KeyGenerator) *RoomTable {
	return &RoomTable{
		keys:  keys,
		rooms: make(map[string]Room),
	}
}

// Create allocates a room for hostID with a fresh key.
func (t *RoomTable) Create(name, hostID string, now time.Time) (Room, error) {
	if _, ok := t.rooms[hostID]; ok {
		return Room{}, ErrDuplicateHost
	}

	room := Room{
		ID:        hostID,
		Name:      name,
		HostID:    hostID,
		Key:       t.keys.Generate(),
		CreatedAt: now,
	}
	t.rooms[room.ID] = room
	t.order = append(t.order, room.ID)
	return room, nil
}

// List returns every room in insertion order.
func (t *RoomTable) List() []Room {
	out := make([]Room, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rooms[id])
	}
	return out
}

func (t *RoomTable) FindByID(id string) (Room, bool) {
	room, ok := t.rooms[id]
	return room, ok
}

func (t *RoomTable) FindByHost(hostID string) (Room, bool) {
	// rooms are keyed by host
	return t.FindByID(hostID)
}

// Remove deletes a room. Removing an unknown id is a no-op.
func (t *RoomTable) Remove(id string) {
	if _, ok := t.rooms[id]; !ok {
		return
	}
	delete(t.rooms, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Sweep removes and returns every room that has expired at now.
func (t *RoomTable) Sweep(now time.Time, ttl time.Duration) []Room {
	var removed []Room
	kept := t.order[:0]
	for _, id := range t.order {
		room := t.rooms[id]
		if room.Expired(now, ttl) {
			delete(t.rooms, id)
			removed = append(removed, room)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
	return removed
}

func (t *RoomTable) Len() int {
	return len(t.rooms)
}
