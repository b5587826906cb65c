package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/id"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// Server to client message types
const (
	TypeSystem       = "system"
	TypeModal        = "modal"
	TypeNotification = "notification"
	TypeStoreEvent   = "store_event"
	TypePong         = "pong"
	TypeError        = "error"
)

// Client to server message types
const (
	TypePing    = "ping"
	TypeColumns = "columns"
)

const (
	sendBuffer     = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Envelope is every server to client frame
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ModalPayload asks the browser to open a modal
type ModalPayload struct {
	Modal      string             `json:"modal"`
	InnerProps any                `json:"innerProps"`
	Options    types.ModalOptions `json:"options"`
}

// ColumnSetter receives grid width reports from the browser
type ColumnSetter interface {
	SetColumnCount(columns int)
}

// Metrics records connection and message counts
type Metrics interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

// Hub fans server events out to every connected browser. It is the
// presentation layer of the backend: modal requests, notifications and store
// changes all leave through it.
type Hub struct {
	columns  ColumnSetter
	logger   *zap.Logger
	metrics  Metrics
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. Origins limits which pages may connect; empty or
// "*" accepts any origin.
func NewHub(columns ColumnSetter, logger *zap.Logger, origins ...string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		columns: columns,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

// WithMetrics attaches a metrics recorder
func (h *Hub) WithMetrics(m Metrics) *Hub {
	h.metrics = m
	return h
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// OpenModal pushes a modal request to every client
func (h *Hub) OpenModal(modal string, innerProps any, opts types.ModalOptions) {
	h.Broadcast(TypeModal, ModalPayload{Modal: modal, InnerProps: innerProps, Options: opts})
}

// Target opens modals on a single connection
type Target struct {
	hub      *Hub
	clientID string
}

// ForClient returns an opener bound to one connection. An empty id falls
// back to broadcasting, for pages that never read their client id.
func (h *Hub) ForClient(clientID string) *Target {
	return &Target{hub: h, clientID: clientID}
}

// OpenModal pushes a modal request to the bound client only
func (t *Target) OpenModal(modal string, innerProps any, opts types.ModalOptions) {
	payload := ModalPayload{Modal: modal, InnerProps: innerProps, Options: opts}
	if t.clientID == "" {
		t.hub.Broadcast(TypeModal, payload)
		return
	}
	if !t.hub.Send(t.clientID, TypeModal, payload) {
		t.hub.logger.Warn("modal target not connected",
			zap.String("client", t.clientID), zap.String("modal", modal))
	}
}

// Notify pushes a notification to every client
func (h *Hub) Notify(n types.Notification) {
	h.Broadcast(TypeNotification, n)
}

// HandleStoreEvent forwards store mutations; pass it to store.Subscribe
func (h *Hub) HandleStoreEvent(ev store.Event) {
	h.Broadcast(TypeStoreEvent, ev)
}

// Broadcast sends one frame to every client. Clients whose buffer is full
// are dropped.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode frame", zap.String("type", msgType), zap.Error(err))
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	sent := len(h.clients) - len(slow)
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client", zap.String("remote", c.remote))
		h.unregister(c)
	}
	if h.metrics != nil {
		for i := 0; i < sent; i++ {
			h.metrics.RecordWSMessage("out", msgType)
		}
	}
}

// Send queues one frame for the client with the given id. It reports false
// when no such client is connected or its buffer is full; a full client is
// dropped as in Broadcast.
func (h *Hub) Send(clientID, msgType string, payload any) bool {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode frame", zap.String("type", msgType), zap.Error(err))
		return false
	}

	h.mu.RLock()
	var target *client
	for c := range h.clients {
		if c.id == clientID {
			target = c
			break
		}
	}
	if target == nil {
		h.mu.RUnlock()
		return false
	}
	select {
	case target.send <- data:
		h.mu.RUnlock()
	default:
		h.mu.RUnlock()
		h.logger.Warn("dropping slow websocket client", zap.String("remote", target.remote))
		h.unregister(target)
		return false
	}

	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
	return true
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handle upgrades the request and serves the connection until it closes
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:     id.NewClientID(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		remote: c.ClientIP(),
	}
	if !h.register(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	cl.enqueue(TypeSystem, gin.H{"message": "connected", "clientId": cl.id})
	go cl.writePump()
	cl.readPump()
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Debug("websocket client connected", zap.String("client", c.id), zap.String("remote", c.remote))
	return true
}

// unregister removes c once and closes its send channel, which stops the
// writer and with it the connection.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Debug("websocket client disconnected", zap.String("remote", c.remote))
}

func (h *Hub) handleMessage(c *client, msg types.WSMessage) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage("in", msg.Type)
	}

	switch msg.Type {
	case TypePing:
		c.enqueue(TypePong, nil)
	case TypeColumns:
		if msg.Columns <= 0 {
			c.enqueue(TypeError, gin.H{"message": "columns must be positive"})
			return
		}
		if h.columns != nil {
			h.columns.SetColumnCount(msg.Columns)
		}
	default:
		c.enqueue(TypeError, gin.H{"message": "unknown message type"})
	}
}

func encode(msgType string, payload any) ([]byte, error) {
	return sonic.Marshal(Envelope{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	})
}
