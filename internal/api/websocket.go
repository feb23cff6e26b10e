package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/calvinwijaya/solitaire-be/internal/game"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
)

// Message represents a WebSocket message
type Message struct {
	Type   string      `json:"type"`
	GameID string      `json:"gameId,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client watching one game
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	gameID string
	hub    *Hub
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	games      map[string]map[*Client]bool
	unregister chan *Client
	done       chan struct{}
	closed     bool
	onAction   func(c *Client, a Action)
	upgrader   websocket.Upgrader
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub. Connections are accepted from the given
// origins, or from any origin when none are given.
func NewHub(logger *slog.Logger, allowedOrigins ...string) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		games:      make(map[string]map[*Client]bool),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowedOrigins) == 0 || origin == "" {
				return true
			}
			for _, o := range allowedOrigins {
				if o == origin {
					return true
				}
			}
			return false
		},
	}

	return h
}

// SetActionHandler sets the callback for actions sent by clients
func (h *Hub) SetActionHandler(fn func(c *Client, a Action)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAction = fn
}

// Run starts the hub and blocks until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeLocked(client)
			}
			h.mu.Unlock()
		}
	}
}

// register adds a client, reporting false once the hub has shut down
func (h *Hub) register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[client] = true
	if _, exists := h.games[client.gameID]; !exists {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true
	return true
}

// removeLocked drops a client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	close(client.send)

	if clients := h.games[client.gameID]; clients != nil {
		delete(clients, client)
		// Clean up games nobody is watching
		if len(clients) == 0 {
			delete(h.games, client.gameID)
		}
	}
}

// CloseGame disconnects every client watching gameID
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.games[gameID] {
		h.removeLocked(client)
	}
}

// ActiveGames returns the IDs of games with at least one connected client
func (h *Hub) ActiveGames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.games))
	for id := range h.games {
		ids = append(ids, id)
	}
	return ids
}

// BroadcastToGame sends a message to all clients watching a game
func (h *Hub) BroadcastToGame(gameID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.games[gameID] {
		select {
		case client.send <- data:
		default:
			// Slow client, drop the message
		}
	}
}

// BroadcastGameUpdate pushes the current state of a game to its watchers
func (h *Hub) BroadcastGameUpdate(g *game.SolitaireGame) {
	h.BroadcastToGame(g.ID, Message{
		Type:   "gameUpdate",
		GameID: g.ID,
		Data:   g.GetGameState(),
	})
}

// SendToClient sends a message to a single client if it is still connected
func (h *Hub) SendToClient(c *Client, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// ServeClient upgrades the connection and attaches it to gameID. The welcome
// message is the first thing the client receives.
func (h *Hub) ServeClient(w http.ResponseWriter, r *http.Request, gameID string, welcome interface{}) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		gameID: gameID,
		hub:    h,
	}

	// Queue the welcome before the client is visible to broadcasts
	if data, err := json.Marshal(welcome); err == nil {
		client.send <- data
	}

	if !h.register(client) {
		conn.Close()
		return
	}

	// Start goroutines for reading and writing
	go client.readPump()
	go client.writePump()
}

// readPump pumps actions from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read", "game_id", c.gameID, "error", err)
			}
			break
		}

		var a Action
		if err := json.Unmarshal(message, &a); err != nil {
			c.hub.SendToClient(c, Message{Type: "error", GameID: c.gameID, Data: "invalid message"})
			continue
		}

		c.hub.mu.RLock()
		onAction := c.hub.onAction
		c.hub.mu.RUnlock()

		if onAction != nil {
			onAction(c, a)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// WebSocket attaches a client to the game named by the gameId query parameter
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		errorResponse(w, http.StatusBadRequest, "gameId is required")
		return
	}
	if h.hub == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Live updates are not available")
		return
	}

	g, err := h.store.GetGame(gameID)
	if err != nil {
		h.storeError(w, gameID, err)
		return
	}

	h.hub.ServeClient(w, r, gameID, Message{
		Type:   "welcome",
		GameID: gameID,
		Data:   g.GetGameState(),
	})
}

// handleSocketAction applies an action sent over a WebSocket. Accepted actions
// reach every watcher through the broadcast; the sender alone hears about
// rejections and errors.
func (h *Handlers) handleSocketAction(c *Client, a Action) {
	result, _, err := h.applyAction(c.gameID, a)
	if err != nil {
		h.hub.SendToClient(c, Message{Type: "error", GameID: c.gameID, Data: err.Error()})
		return
	}

	if !result.Accepted {
		h.hub.SendToClient(c, Message{Type: "rejected", GameID: c.gameID, Data: a})
	}
}
