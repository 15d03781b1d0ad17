package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cardroom/holdemd/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period, kept under pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size.
	maxMessageSize = 8192

	// Outbound buffer depth before the connection is dropped as too slow.
	sendBuffer = 256
)

// Connection binds one WebSocket to one seated player. The read pump feeds
// inbound messages to the table; the write pump drains the send buffer and
// keeps the socket alive with pings.
type Connection struct {
	ws    *websocket.Conn
	table *game.Table
	hub   *Hub
	log   zerolog.Logger

	playerID string
	metrics  *Metrics

	send      chan Outbound
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection wraps an upgraded socket for a player already seated at the
// table.
func NewConnection(ws *websocket.Conn, table *game.Table, hub *Hub, playerID string, logger zerolog.Logger, metrics *Metrics) *Connection {
	return &Connection{
		ws:       ws,
		table:    table,
		hub:      hub,
		log:      logger.With().Str("player", playerID).Logger(),
		playerID: playerID,
		metrics:  metrics,
		send:     make(chan Outbound, sendBuffer),
		done:     make(chan struct{}),
	}
}

// Start registers the connection with the hub, marks the player connected
// and launches the pumps. The table responds to the connect by sending a
// redacted snapshot through the hub.
func (c *Connection) Start() {
	c.hub.Register(c.playerID, c)
	c.table.SetConnected(c.playerID, true)
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down once. The player is marked disconnected
// only if this connection is still the hub's current one, so a reconnect
// racing a stale close keeps its seat live.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.ws != nil {
			_ = c.ws.Close()
		}
		if c.hub.Unregister(c.playerID, c) {
			c.table.SetConnected(c.playerID, false)
		}
	})
}

// Send queues an outbound frame. A client that cannot drain its buffer is
// disconnected rather than allowed to stall the table.
func (c *Connection) Send(msg Outbound) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		c.log.Warn().Str("type", msg.Type).Msg("Send buffer full, dropping connection")
		c.Close()
	}
}

func (c *Connection) readPump() {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("WebSocket read failed")
			}
			return
		}

		var msg Envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed frames are dropped; the connection stays open.
			c.log.Debug().Err(err).Msg("Dropping malformed message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.log.Debug().Err(err).Msg("WebSocket write failed")
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Connection) handleMessage(msg Envelope) {
	switch msg.Type {
	case MsgAction:
		var req ActionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError("invalid action payload")
			return
		}
		action := game.Action(req.Action)
		if !action.Valid() {
			c.sendError("unknown action " + req.Action)
			return
		}
		if c.metrics != nil {
			c.metrics.ActionsReceived.Inc()
		}
		c.table.SubmitAction(c.playerID, action, req.Amount)

	case MsgChat:
		var req ChatRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.Message == "" {
			c.sendError("invalid chat payload")
			return
		}
		c.table.Chat(c.playerID, req.Message)

	case MsgPing:
		c.Send(Outbound{Type: MsgPong})

	default:
		c.sendError("unknown message type " + msg.Type)
	}
}

func (c *Connection) sendError(message string) {
	c.Send(Outbound{Type: game.EventError, Payload: game.ErrorPayload{Message: message}})
}
