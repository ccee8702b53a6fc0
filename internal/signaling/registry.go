package signaling

// Registry tracks live connections and room broadcast groups.
//
// Registry is not safe for concurrent use; the Hub goroutine owns it.
type Registry struct {
	clients map[string]*Client

	// groups maps room IDs to the connections currently in that room.
	groups map[string]map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
	}
}

// Add registers a connection. It reports false if the id is taken.
func (r *Registry) Add(c *Client) bool {
	if _, ok := r.clients[c.ID]; ok {
		return false
	}
	r.clients[c.ID] = c
	return true
}

// Remove forgets a connection and drops it from its group. It reports false
// if c is not the registered connection for its id.
func (r *Registry) Remove(c *Client) bool {
	if r.clients[c.ID] != c {
		return false
	}
	delete(r.clients, c.ID)
	if c.RoomID != "" {
		r.Leave(c.RoomID, c)
	}
	return true
}

func (r *Registry) Get(id string) (*Client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

// All returns every live connection.
func (r *Registry) All() []*Client {
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.clients)
}

// Join adds c to the broadcast group of roomID.
func (r *Registry) Join(roomID string, c *Client) {
	group, ok := r.groups[roomID]
	if !ok {
		group = make(map[string]*Client)
		r.groups[roomID] = group
	}
	group[c.ID] = c
}

// Leave removes c from the group of roomID, reporting whether it was a member.
func (r *Registry) Leave(roomID string, c *Client) bool {
	group, ok := r.groups[roomID]
	if !ok {
		return false
	}
	if _, member := group[c.ID]; !member {
		return false
	}
	delete(group, c.ID)
	if len(group) == 0 {
		delete(r.groups, roomID)
	}
	return true
}

func (r *Registry) IsMember(roomID, id string) bool {
	_, ok := r.groups[roomID][id]
	return ok
}

// Members returns the connections in roomID, excluding the id in except.
func (r *Registry) Members(roomID, except string) []*Client {
	group := r.groups[roomID]
	out := make([]*Client, 0, len(group))
	for id, c := range group {
		if id != except {
			out = append(out, c)
		}
	}
	return out
}

// Disband deletes the group of roomID and returns its former members.
func (r *Registry) Disband(roomID string) []*Client {
	members := r.Members(roomID, "")
	delete(r.groups, roomID)
	return members
}
