package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"meetnow/metrics"
	"meetnow/models"
)

const (
	// DefaultHeartbeat is how often each connection is pinged.
	DefaultHeartbeat = 25 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 512
	inboundBuffer  = 256
	clientBuffer   = 256
)

// Hub fans every store event out to all connected websocket clients. Nothing
// in it ever blocks the caller of Broadcast: a full hub drops the event and a
// client that cannot keep up is disconnected.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	heartbeat time.Duration
	upgrader  websocket.Upgrader
	log       zerolog.Logger
	dropped   atomic.Int64
}

type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	pong   chan struct{}
	hub    *Hub
}

func NewHub(heartbeat time.Duration, log zerolog.Logger) *Hub {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, inboundBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		heartbeat:  heartbeat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With().Str("component", "realtime").Logger(),
	}
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedClients.Set(float64(n))
			h.log.Info().Str("user_id", client.userID).Int("clients", n).Msg("websocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedClients.Set(float64(n))
			h.log.Info().Str("user_id", client.userID).Int("clients", n).Msg("websocket client unregistered")

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer; the reader goroutine will notice the
					// closed connection and exit
					close(client.send)
					delete(h.clients, client)
					metrics.EventsDropped.WithLabelValues("client").Inc()
					h.log.Warn().Str("user_id", client.userID).Msg("dropping slow websocket client")
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedClients.Set(float64(n))

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			metrics.ConnectedClients.Set(0)
			h.log.Info().Msg("realtime hub stopped")
			return
		}
	}
}

// Broadcast queues evt for every connected client without blocking.
func (h *Hub) Broadcast(evt models.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(evt.Type)).Msg("failed to marshal event")
		return
	}

	select {
	case h.broadcast <- msg:
		metrics.EventsBroadcast.WithLabelValues(string(evt.Type)).Inc()
	default:
		h.dropped.Add(1)
		metrics.EventsDropped.WithLabelValues("hub").Inc()
		h.log.Warn().Str("type", string(evt.Type)).Msg("realtime hub full, event dropped")
	}
}

// Clients returns the number of registered connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many events Broadcast discarded because the hub was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// ServeWS upgrades the request and subscribes the connection to every event.
// The optional userId query parameter is only used for logging.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		conn:   conn,
		userID: r.URL.Query().Get("userId"),
		send:   make(chan []byte, clientBuffer),
		pong:   make(chan struct{}, 1),
		hub:    h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// pongWait gives a client one full heartbeat after a ping to answer it.
func (h *Hub) pongWait() time.Duration {
	return 2 * h.heartbeat
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Str("user_id", c.userID).Msg("websocket read error")
			}
			return
		}

		// application level keepalive for clients that cannot send control frames
		if string(bytes.TrimSpace(message)) == "ping" {
			c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
			select {
			case c.pong <- struct{}{}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.heartbeat)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-c.pong:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
