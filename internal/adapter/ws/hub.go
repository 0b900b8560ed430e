// Package ws pushes entity change events to subscribed clients over
// WebSocket. The hub owns every connection's lifetime: handlers block
// until the peer disconnects or the hub shuts down.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Event is the wire envelope for everything the hub sends. Type equals
// the queue subject for the same change, e.g. "teams.created".
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// client is one subscribed peer.
type client struct {
	sock *websocket.Conn
}

// Hub tracks subscribed clients and fans entity change events out to
// all of them.
type Hub struct {
	// ctx governs connection lifetimes. Read loops run against it
	// rather than the request context, which the server cancels as
	// soon as a handler returns.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub returns a hub ready to accept subscribers.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[*client]struct{}),
	}
}

// HandleWS upgrades the request and serves the connection until the
// peer disconnects or the hub closes. It deliberately does not return
// earlier: the subscription lasts exactly as long as this call, so the
// route must not sit under a request-timeout middleware.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	c := &client{sock: sock}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket client connected", "remote", r.RemoteAddr)

	// Inbound frames are read only to detect disconnects and answer
	// pings; clients have nothing to say to the hub.
	for {
		if _, _, err := sock.Read(h.ctx); err != nil {
			break
		}
	}

	h.drop(c)
	_ = sock.Close(websocket.StatusNormalClosure, "")
	slog.Info("websocket client disconnected", "remote", r.RemoteAddr)
}

// Broadcast sends the event to every subscribed client. A client whose
// write fails is dropped.
func (h *Hub) Broadcast(ctx context.Context, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("encode ws event", "type", evt.Type, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.sock.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("ws write failed, dropping client", "error", err)
			h.drop(c)
			_ = c.sock.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// BroadcastEvent marshals payload and broadcasts it under eventType.
// Implements broadcast.Broadcaster.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encode ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Event{Type: eventType, Payload: data})
}

// ConnectionCount reports how many clients are currently subscribed.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops the hub. Blocked HandleWS
// calls return once their read observes the cancelled hub context.
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.sock.Close(websocket.StatusGoingAway, "server shutting down")
	}
	clear(h.clients)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}
