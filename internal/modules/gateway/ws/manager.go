package ws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frankieli/bingo_live/pkg/logger"
	"github.com/gorilla/websocket"
)

type CloseReason string

const (
	ReasonWriteError     CloseReason = "write_error"
	ReasonPingError      CloseReason = "ping_error"
	ReasonReadError      CloseReason = "read_error"
	ReasonSendChanClosed CloseReason = "send_channel_closed"
	ReasonShutdown       CloseReason = "server_shutdown"
	ReasonBufferFull     CloseReason = "buffer_full"
	ReasonTimeout        CloseReason = "timeout"
)

// Connection represents a WebSocket connection subscribed to one game
type Connection struct {
	ID        int64
	GameID    string
	Conn      *websocket.Conn
	Send      chan []byte
	manager   *Manager
	closeOnce sync.Once
}

// Manager manages WebSocket connections grouped by game
type Manager struct {
	games      map[string]map[int64]*Connection
	register   chan *Connection
	unregister chan *Connection
	nextID     int64
	mu         sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		games:      make(map[string]map[int64]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
	}
}

// Register registers a new connection subscribed to the given game
func (m *Manager) Register(conn *websocket.Conn, gameID string) *Connection {
	c := &Connection{
		ID:      atomic.AddInt64(&m.nextID, 1),
		GameID:  gameID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		manager: m,
	}
	m.register <- c
	return c
}

// Run starts the manager loop
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if _, ok := m.games[client.GameID]; !ok {
				m.games[client.GameID] = make(map[int64]*Connection)
			}
			m.games[client.GameID][client.ID] = client
			m.mu.Unlock()

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.games[client.GameID]; ok {
				if _, ok := conns[client.ID]; ok {
					delete(conns, client.ID)
					if len(conns) == 0 {
						delete(m.games, client.GameID)
					}
					client.CloseWithReason(ReasonShutdown, nil)
				}
			}
			m.mu.Unlock()
		}
	}
}

// BroadcastToGame sends a message to every connection watching a game
func (m *Manager) BroadcastToGame(gameID string, message []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.games[gameID] {
		select {
		case client.Send <- message:
		default:
			// Buffer full, drop client. The unregister channel will
			// handle map cleanup when its pumps exit.
			client.CloseWithReason(ReasonBufferFull, nil)
		}
	}
}

// WatcherCount reports how many connections are subscribed to a game
func (m *Manager) WatcherCount(gameID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games[gameID])
}

// Shutdown closes all connections
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, conns := range m.games {
		for _, client := range conns {
			client.CloseWithReason(ReasonShutdown, nil)
		}
	}
}

// CloseWithReason closes the connection with a reason
func (c *Connection) CloseWithReason(r CloseReason, err error) {
	c.closeOnce.Do(func() {
		logger.Error(context.Background()).
			Int64("conn_id", c.ID).
			Str("game_id", c.GameID).
			Str("reason", string(r)).
			Err(err).
			Msg("ws connection closed")
		c.Conn.Close()
	})
}

// WritePump pumps messages from the manager to the websocket connection
func (c *Connection) WritePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping period
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			// Long write deadline so a stalled reader cannot pin a
			// server goroutine forever
			c.Conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				c.CloseWithReason(ReasonWriteError, err)
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				c.CloseWithReason(ReasonWriteError, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.CloseWithReason(ReasonPingError, err)
				return
			}
		}
	}
}

// ReadPump drains the websocket connection. Viewers are read-only, so
// inbound frames are discarded; the pump exists to service pongs and to
// detect disconnects.
func (c *Connection) ReadPump() {
	var readErr error
	defer func() {
		c.manager.unregister <- c
		c.CloseWithReason(ReasonReadError, readErr)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second)) // Pong wait
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				readErr = err
			}
			break
		}
	}
}
