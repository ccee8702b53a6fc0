package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"

	"github.com/BioHazard786/peerlink/internal/config"
	"github.com/BioHazard786/peerlink/internal/signaling"
	"github.com/BioHazard786/peerlink/internal/version"
)

// RoomsResponse is the body of GET /rooms.
type RoomsResponse struct {
	Rooms []signaling.Room `json:"rooms"`
}

// NewRouter wires the HTTP surface of the relay.
func NewRouter(hub *signaling.Hub, cfg *config.Config) chi.Router {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}),
	)

	router.Get("/health", healthCheckHandler)
	router.Get("/ws", ServeWs(hub, cfg))
	router.Get("/rooms", roomsHandler(hub))
	router.Get("/ice-servers", iceServersHandler(cfg))
	router.Get("/version", versionHandler)
	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Signaling server is healthy."))
}

// ServeWs returns an http.HandlerFunc that upgrades to a websocket and hands
// the connection to the hub.
func ServeWs(hub *signaling.Hub, cfg *config.Config) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 * 1024, // 64 KB
		WriteBufferSize: 64 * 1024, // 64 KB
		Subprotocols:    signaling.Subprotocols,
		CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
	}

	limits := signaling.Limits{MaxNameLength: cfg.MaxNameLength}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("failed to upgrade connection", "remote", r.RemoteAddr, "error", err)
			return
		}

		codec, err := signaling.CodecFor(conn.Subprotocol())
		if err != nil {
			slog.Error("negotiated unsupported codec", "subprotocol", conn.Subprotocol())
			conn.Close()
			return
		}

		client := signaling.NewClient(uuid.NewString(), hub, conn, codec, limits)
		if !hub.Register(client) {
			conn.Close()
			return
		}
		slog.Debug("websocket connected", "conn", client.ID, "remote", r.RemoteAddr, "codec", codec.Name())

		go client.WritePump()
		go client.ReadPump()
	}
}

// checkOrigin allows every origin for "*", otherwise only the listed ones.
// Requests without an Origin header are not from browsers and pass.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func roomsHandler(hub *signaling.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := hub.Rooms(r.Context())
		if err != nil {
			http.Error(w, "rooms unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, RoomsResponse{Rooms: rooms})
	}
}

func iceServersHandler(cfg *config.Config) http.HandlerFunc {
	servers := ICEServers(cfg)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, servers)
	}
}

// ICEServers builds the ICE configuration browsers should use for their
// peer connections.
func ICEServers(cfg *config.Config) []webrtc.ICEServer {
	servers := []webrtc.ICEServer{}
	if stun := cfg.GetSTUNServers(); len(stun) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: stun})
	}
	if turn := cfg.GetTURNServers(); len(turn) > 0 {
		user, pass := cfg.GetTURNCredentials()
		servers = append(servers, webrtc.ICEServer{
			URLs:           turn,
			Username:       user,
			Credential:     pass,
			CredentialType: webrtc.ICECredentialTypePassword,
		})
	}
	return servers
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": version.Version})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
