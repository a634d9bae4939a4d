package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Snapshots queued per client before it is dropped as too slow
	sendBuffer = 8
)

// Snapshot is the message pushed to WebSocket clients after every sweep.
type Snapshot struct {
	Type       string                 `json:"type"`
	SweepID    string                 `json:"sweep_id"`
	CapturedAt time.Time              `json:"captured_at"`
	Hosts      []discovery.HostRecord `json:"hosts"`
}

func newSnapshot(info discovery.SweepInfo, hosts []discovery.HostRecord) Snapshot {
	if hosts == nil {
		hosts = []discovery.HostRecord{}
	}
	captured := info.FinishedAt
	if captured.IsZero() {
		captured = time.Now()
	}
	return Snapshot{
		Type:       "hosts",
		SweepID:    info.ID,
		CapturedAt: captured,
		Hosts:      hosts,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// client is one connected WebSocket peer.
type client struct {
	conn       *websocket.Conn
	remoteAddr string
	send       chan []byte
	closeOnce  sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// hub tracks connected clients and remembers the latest snapshot so new
// clients start with current data.
type hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
}

func newHub(logger *zap.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// register adds c and queues the latest snapshot for it.
func (h *hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

// broadcast queues snap for every client. Clients whose queue is full are
// disconnected.
func (h *hub) broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("Failed to marshal snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping slow WebSocket client", zap.String("remote_addr", c.remoteAddr))
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// handleWebSocket upgrades the request and streams snapshots until the peer
// goes away or the server shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		conn:       conn,
		remoteAddr: r.RemoteAddr,
		send:       make(chan []byte, sendBuffer),
	}
	s.logger.Info("WebSocket client connected", zap.String("remote_addr", c.remoteAddr))
	s.hub.register(c)

	go s.writePump(c)
	s.readPump(c)
}

// readPump discards inbound messages and keeps the read deadline alive via
// pongs. It returns when the connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.unregister(c)
		_ = c.conn.Close()
		s.logger.Info("WebSocket client disconnected", zap.String("remote_addr", c.remoteAddr))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("WebSocket read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogWebSocketMessage(c.remoteAddr, "received", msgType, len(data))
	}
}

// writePump sends queued snapshots and periodic pings. It closes the
// connection when the send queue is closed.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("WebSocket write failed",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
				return
			}
			logging.LogWebSocketMessage(c.remoteAddr, "sent", websocket.TextMessage, len(data))

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
