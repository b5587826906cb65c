package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/lifecycle"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/menu"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
)

// clientHeader carries the websocket client id announced in the stream's
// connected frame
const clientHeader = "X-Client-ID"

const (
	serviceName    = "Dashboard Service (Go)"
	serviceVersion = "0.3.0"
)

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry   *widgets.Registry
	store      *store.Store
	lifecycle  *lifecycle.Manager
	dispatcher *menu.Dispatcher
	editor     *menu.Editor
	logger     *zap.Logger

	breaker *resilience.Breaker
	clients ClientCounter
	modals  ModalRouter
}

// ModalRouter resolves the connection that should see a request's modals
type ModalRouter func(clientID string) menu.ModalOpener

// NewHandlers creates a new handler set
func NewHandlers(
	registry *widgets.Registry,
	s *store.Store,
	lc *lifecycle.Manager,
	dispatcher *menu.Dispatcher,
	editor *menu.Editor,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry:   registry,
		store:      s,
		lifecycle:  lc,
		dispatcher: dispatcher,
		editor:     editor,
		logger:     logger,
	}
}

// WithBreaker reports the storage breaker in health checks
func (h *Handlers) WithBreaker(b *resilience.Breaker) *Handlers {
	h.breaker = b
	return h
}

// WithModalRouter sends modals to the tab named by the X-Client-ID header
func (h *Handlers) WithModalRouter(r ModalRouter) *Handlers {
	h.modals = r
	return h
}

// opener returns the request's own modal target, or nil when the request
// names no client.
func (h *Handlers) opener(c *gin.Context) menu.ModalOpener {
	clientID := c.GetHeader(clientHeader)
	if h.modals == nil || clientID == "" {
		return nil
	}
	return h.modals(clientID)
}

// WithClients reports websocket clients in health checks
func (h *Handlers) WithClients(c ClientCounter) *Handlers {
	h.clients = c
	return h
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Health reports store, registry and storage state. An open storage
// breaker degrades the service but does not take it down.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	body := gin.H{
		"store":    h.store.Stats(),
		"registry": h.registry.Stats(),
	}
	if h.breaker != nil {
		snap := h.breaker.Snapshot()
		body["storage"] = snap
		if h.breaker.State() == resilience.StateOpen {
			status = "degraded"
		}
	}
	if h.clients != nil {
		body["stream_clients"] = h.clients.ClientCount()
	}
	body["status"] = status

	c.JSON(http.StatusOK, body)
}

// ListDefinitions lists every registered widget type
func (h *Handlers) ListDefinitions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"definitions": h.registry.List(),
		"stats":       h.registry.Stats(),
	})
}

// GetDefinition returns one widget definition
func (h *Handlers) GetDefinition(c *gin.Context) {
	typeID := c.Param("type")
	def, ok := h.registry.Lookup(typeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown widget type: " + typeID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"definition": def,
		"defaults":   h.registry.Defaults(typeID),
	})
}
