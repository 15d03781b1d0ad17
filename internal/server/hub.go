package server

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub is the per-table connection registry. It implements game.Broadcaster,
// so the table goroutine fans events out through it without knowing about
// sockets. Players without a live connection are silently skipped, which is
// how bots and disconnected humans fall out of delivery.
type Hub struct {
	log     zerolog.Logger
	metrics *Metrics

	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger, metrics *Metrics) *Hub {
	return &Hub{
		log:     logger,
		metrics: metrics,
		conns:   make(map[string]*Connection),
	}
}

// Register attaches a connection for a player, displacing any previous one.
func (h *Hub) Register(playerID string, c *Connection) {
	h.mu.Lock()
	old := h.conns[playerID]
	h.conns[playerID] = c
	h.mu.Unlock()

	if old != nil {
		old.Close()
	} else if h.metrics != nil {
		h.metrics.ConnectedClients.Inc()
	}
}

// Unregister detaches a connection if it is still the current one for the
// player. A stale connection displaced by a reconnect is ignored.
func (h *Hub) Unregister(playerID string, c *Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[playerID] != c {
		return false
	}
	delete(h.conns, playerID)
	if h.metrics != nil {
		h.metrics.ConnectedClients.Dec()
	}
	return true
}

// BroadcastPersonalized sends one event to every connected player, invoking
// the factory per recipient so each payload can be redacted for its viewer.
// A nil payload skips that recipient.
func (h *Hub) BroadcastPersonalized(event string, factory func(playerID string) any) {
	h.metrics.observeEvent(event)

	for _, r := range h.snapshot() {
		payload := factory(r.playerID)
		if payload == nil {
			continue
		}
		r.conn.Send(Outbound{Type: event, Payload: payload})
	}
}

// SendTo sends one event to one player, if connected.
func (h *Hub) SendTo(playerID string, event string, payload any) {
	h.mu.RLock()
	c := h.conns[playerID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	c.Send(Outbound{Type: event, Payload: payload})
}

type recipient struct {
	playerID string
	conn     *Connection
}

// snapshot copies the registry so sends happen outside the lock.
func (h *Hub) snapshot() []recipient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]recipient, 0, len(h.conns))
	for id, c := range h.conns {
		out = append(out, recipient{playerID: id, conn: c})
	}
	return out
}
