package display

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types pushed to browser clients.
const (
	MessageSync   = "sync"
	MessageStatus = "status"
	MessageSlot   = "slot"
	MessageClear  = "clear"
)

// Message is one JSON frame sent to browser clients.
type Message struct {
	Type   string      `json:"type"`
	Status *StatusView `json:"status,omitempty"`
	Slot   *SlotView   `json:"slot,omitempty"`
	View   *View       `json:"view,omitempty"`
}

// HubConfig holds websocket fan-out settings.
type HubConfig struct {
	QueueSize      int           // Per-client send queue (default: 64)
	WriteTimeout   time.Duration // Per-frame write deadline (default: 10s)
	PingInterval   time.Duration // Keepalive ping period (default: 30s)
	AllowedOrigins []string      // Empty allows any origin
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		QueueSize:    64,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Hub is a Surface that mirrors every mutation into a Document and pushes it
// to connected browsers. A client that cannot keep up is disconnected.
type Hub struct {
	cfg      HubConfig
	doc      *Document
	logger   *slog.Logger
	upgrader websocket.Upgrader

	// writeMu orders document writes with their broadcasts, so clients see
	// mutations in the same order as the document.
	writeMu sync.Mutex

	mu      sync.RWMutex
	clients map[string]*peer
	closed  bool
}

// peer is one connected browser.
type peer struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (p *peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.conn != nil {
			p.conn.Close()
		}
	})
}

// NewHub creates a Hub backed by doc.
func NewHub(cfg HubConfig, doc *Document, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultHubConfig().QueueSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultHubConfig().WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultHubConfig().PingInterval
	}

	h := &Hub{
		cfg:     cfg,
		doc:     doc,
		logger:  logger,
		clients: make(map[string]*peer),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Document returns the backing document.
func (h *Hub) Document() *Document {
	return h.doc
}

// SetStatus implements Surface.
func (h *Hub) SetStatus(state State) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.doc.SetStatus(state)

	status, ok := h.doc.Status()
	if !ok {
		return
	}
	h.broadcast(Message{Type: MessageStatus, Status: &status})
}

// SetSlot implements Surface.
func (h *Hub) SetSlot(position int, username, points string) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.doc.SetSlot(position, username, points)

	slot, ok := h.doc.Slot(position)
	if !ok {
		return
	}
	h.broadcast(Message{Type: MessageSlot, Slot: &slot})
}

// ClearSlot implements Surface.
func (h *Hub) ClearSlot(position int) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.doc.ClearSlot(position)

	slot, ok := h.doc.Slot(position)
	if !ok {
		return
	}
	h.broadcast(Message{Type: MessageClear, Slot: &slot})
}

// ClientCount returns the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and streams mutations to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "hub closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	p := &peer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.cfg.QueueSize),
		done: make(chan struct{}),
	}
	if !h.register(p) {
		p.close()
		return
	}

	h.logger.Info("display client connected", "client_id", p.id, "remote", r.RemoteAddr)

	go h.writeLoop(p)
	h.readLoop(p)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := h.clients
	h.clients = make(map[string]*peer)
	h.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

// register queues the initial sync frame and adds p under the same lock, so
// p observes every mutation that follows the sync.
func (h *Hub) register(p *peer) bool {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	view := h.doc.View()
	data, err := json.Marshal(Message{Type: MessageSync, View: &view})
	if err != nil {
		h.logger.Error("failed to encode sync message", "err", err)
		return false
	}
	p.send <- data

	h.clients[p.id] = p
	return true
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	if h.clients[p.id] == p {
		delete(h.clients, p.id)
	}
	h.mu.Unlock()

	p.close()
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode display message", "type", msg.Type, "err", err)
		return
	}

	var slow []*peer

	h.mu.RLock()
	for _, p := range h.clients {
		select {
		case p.send <- data:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		h.logger.Warn("display client queue full, disconnecting", "client_id", p.id)
		h.remove(p)
	}
}

// readLoop discards inbound frames and returns when the connection drops.
func (h *Hub) readLoop(p *peer) {
	defer func() {
		h.remove(p)
		h.logger.Info("display client disconnected", "client_id", p.id)
	}()

	p.conn.SetReadLimit(512)
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop drains the send queue and keeps the connection alive.
func (h *Hub) writeLoop(p *peer) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case data := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("display client write failed", "client_id", p.id, "err", err)
				h.remove(p)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := p.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				h.logger.Debug("failed to send ping", "client_id", p.id, "err", err)
				h.remove(p)
				return
			}
		}
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
