package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Client represents a websocket connection bound to a user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// notification is a payload addressed to all of one user's connections.
type notification struct {
	userID  string
	payload []byte
}

// Hub manages active clients and per-user broadcasts. clientsByUser is owned
// exclusively by the run goroutine; register, unregister and notifications
// all go through channels so no map access ever races.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan notification
	// Map of userID to set of clients
	clientsByUser map[string]map[*Client]bool
}

// NewHub creates and starts a new Hub loop.
func NewHub() *Hub {
	h := &Hub{
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan notification, 64),
		clientsByUser: make(map[string]map[*Client]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			set, ok := h.clientsByUser[c.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clientsByUser[c.userID] = set
			}
			set[c] = true
		case c := <-h.unregister:
			if set, ok := h.clientsByUser[c.userID]; ok {
				if _, exists := set[c]; exists {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clientsByUser, c.userID)
					}
				}
			}
		case n := <-h.broadcast:
			h.deliver(n)
		}
	}
}

// deliver fans a payload out to the user's connections. Runs only on the
// run goroutine.
func (h *Hub) deliver(n notification) {
	set, ok := h.clientsByUser[n.userID]
	if !ok {
		return
	}
	for c := range set {
		select {
		case c.send <- n.payload:
		default:
			// Backpressure: drop and disconnect slow clients
			delete(set, c)
			close(c.send)
		}
	}
	if len(set) == 0 {
		delete(h.clientsByUser, n.userID)
	}
}

// NotifyUser queues a payload for all connected clients of a given user.
// Safe to call from any goroutine.
func (h *Hub) NotifyUser(userID string, payload []byte) {
	if h == nil {
		return
	}
	h.broadcast <- notification{userID: userID, payload: payload}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the HTTP connection to WebSocket and registers the
// client. The session is not re-verified here; the caller must run this
// behind the auth middleware that sets userId in the context.
func ServeWS(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		if userID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "err", err)
			return
		}
		client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
		h.register <- client

		// Reader goroutine
		go func() {
			defer func() {
				h.unregister <- client
				_ = conn.Close()
			}()
			conn.SetReadLimit(1024)
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			})
			for {
				_, _, err := conn.ReadMessage()
				if err != nil {
					break
				}
			}
		}()

		// Writer loop (same goroutine)
		for msg := range client.send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}
}
