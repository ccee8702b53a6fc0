package signaling

import (
	"context"
	"log/slog"
	"time"
)

// HubOptions configures room lifecycle behaviour.
type HubOptions struct {
	// RoomTTL is the age at which a sweep evicts a room.
	RoomTTL time.Duration

	// HideKeys redacts join keys from rooms-list messages.
	HideKeys bool

	// Now is the clock used for room timestamps. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Hub is the central brain of the signaling server.
// It owns the room table and connection registry; every mutation happens on
// the goroutine running Run, so no locks are needed.
type Hub struct {
	rooms   *RoomTable
	clients *Registry
	opts    HubOptions
	log     *slog.Logger

	register   chan *Client
	unregister chan *Client
	requests   chan *Request
	sweeps     chan time.Time
	snapshots  chan chan []Room

	// slow holds clients whose send queue overflowed during the current
	// event. They are disconnected once the event is fully handled.
	slow map[*Client]struct{}

	// done is closed when Run returns.
	done chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub(keys KeyGenerator, opts HubOptions) *Hub {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Hub{
		rooms:      NewRoomTable(keys),
		clients:    NewRegistry(),
		opts:       opts,
		log:        opts.Logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan *Request),
		sweeps:     make(chan time.Time),
		snapshots:  make(chan chan []Room),
		slow:       make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main processing loop and blocks until ctx is done.
// On exit every remaining client's send queue is closed.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients.All() {
				h.clients.Remove(c)
				close(c.Send)
			}
			h.log.Info("hub stopped")
			return nil

		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case req := <-h.requests:
			h.dispatch(req)

		case now := <-h.sweeps:
			h.handleSweep(now)

		case reply := <-h.snapshots:
			rooms := h.rooms.List()
			for i := range rooms {
				rooms[i] = rooms[i].redacted()
			}
			reply <- rooms
		}

		h.dropSlow()
	}
}

// Register hands a new connection to the hub. It reports false once the
// hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister tells the hub a connection is gone.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit queues a request from c for processing.
func (h *Hub) Submit(c *Client, req *Request) {
	req.client = c
	select {
	case h.requests <- req:
	case <-h.done:
	}
}

// Sweep evicts rooms that have expired at now and broadcasts the room list.
func (h *Hub) Sweep(now time.Time) {
	select {
	case h.sweeps <- now:
	case <-h.done:
	}
}

// Rooms returns the current rooms with their keys redacted.
func (h *Hub) Rooms(ctx context.Context) ([]Room, error) {
	reply := make(chan []Room, 1)
	select {
	case h.snapshots <- reply:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case rooms := <-reply:
		return rooms, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) dispatch(req *Request) {
	c := req.client
	if !h.registered(c) {
		// Raced with disconnect.
		return
	}

	if req.Err != nil {
		h.log.Debug("rejected request", "conn", c.ID, "error", req.Err)
		h.sendError(c, CodeInvalidRequest, req.Err)
		return
	}

	h.log.Debug("request", "conn", c.ID, "type", req.Type)

	switch p := req.Payload.(type) {
	case *HostRoomPayload:
		h.handleHost(c, p)
	case *JoinRoomPayload:
		h.handleJoin(c, p)
	case *LeaveRoomPayload:
		h.handleLeave(c, p)
	case *CallUserPayload:
		h.relayOffer(c, p)
	case *MakeAnswerPayload:
		h.relayAnswer(c, p)
	case *ICECandidatePayload:
		h.relayCandidate(c, p)
	default:
		if req.Type == TypeGetRooms {
			h.handleListRooms(c)
			return
		}
		h.log.Warn("unhandled request", "conn", c.ID, "type", req.Type)
	}
}

// send enqueues msg for c without blocking. A client whose queue is full is
// treated as disconnected. Clients no longer registered are skipped, since
// their queue is already closed.
func (h *Hub) send(c *Client, msg *Message) {
	if !h.registered(c) {
		return
	}
	if _, ok := h.slow[c]; ok {
		return
	}
	select {
	case c.Send <- msg:
	default:
		h.log.Warn("send queue full, dropping client", "conn", c.ID)
		h.slow[c] = struct{}{}
	}
}

// dropSlow disconnects clients that could not keep up. Disconnecting a host
// broadcasts again, which may mark more clients, hence the loop.
func (h *Hub) dropSlow() {
	for len(h.slow) > 0 {
		for c := range h.slow {
			delete(h.slow, c)
			h.handleDisconnect(c)
		}
	}
}

func (h *Hub) sendError(c *Client, code string, err error) {
	h.send(c, &Message{Type: TypeError, Payload: ErrorPayload{Code: code, Message: err.Error()}})
}

// broadcast sends msg to every member of roomID except the connection except.
func (h *Hub) broadcast(roomID, except string, msg *Message) {
	for _, c := range h.clients.Members(roomID, except) {
		h.send(c, msg)
	}
}

// broadcastRooms sends the full room list to every connected client.
func (h *Hub) broadcastRooms() {
	msg := &Message{Type: TypeRoomsList, Payload: h.roomList()}
	for _, c := range h.clients.All() {
		h.send(c, msg)
	}
}

func (h *Hub) registered(c *Client) bool {
	current, ok := h.clients.Get(c.ID)
	return ok && current == c
}

func (h *Hub) roomList() []Room {
	rooms := h.rooms.List()
	if h.opts.HideKeys {
		for i := range rooms {
			rooms[i] = rooms[i].redacted()
		}
	}
	return rooms
}
