package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/lifecycle"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/menu"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/widgets"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/Dashboard/backend/internal/infrastructure/resilience"
)

var statusTable = []struct {
	err    error
	status int
}{
	{store.ErrConfigNotFound, http.StatusNotFound},
	{store.ErrNoActiveConfig, http.StatusNotFound},
	{store.ErrWidgetNotFound, http.StatusNotFound},
	{persistence.ErrNotFound, http.StatusNotFound},

	{store.ErrWidgetExists, http.StatusConflict},
	{store.ErrConfigBusy, http.StatusConflict},
	{lifecycle.ErrConfigExists, http.StatusConflict},
	{menu.ErrEditUnavailable, http.StatusConflict},

	{lifecycle.ErrInvalidName, http.StatusBadRequest},
	{lifecycle.ErrInvalidDocument, http.StatusBadRequest},
	{lifecycle.ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
	{persistence.ErrInvalidName, http.StatusBadRequest},
	{menu.ErrUnknownWidgetType, http.StatusBadRequest},
	{menu.ErrInvalidArea, http.StatusBadRequest},
	{widgets.ErrInvalidProperty, http.StatusBadRequest},

	{lifecycle.ErrNoTrash, http.StatusNotImplemented},
	{persistence.ErrNoTrash, http.StatusNotImplemented},

	{resilience.ErrCircuitOpen, http.StatusServiceUnavailable},
	{resilience.ErrTooManyRequests, http.StatusServiceUnavailable},
}

// statusFor maps a domain error to an HTTP status
func statusFor(err error) int {
	for _, entry := range statusTable {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body and records it on the context
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
