package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/menu"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

// AddWidget places a new widget on the active config
func (h *Handlers) AddWidget(c *gin.Context) {
	var req types.WidgetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.editor.AddWidget(req.Type, req.Properties, req.Area)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"widget": w})
}

// GetMenu describes the actions available on a widget tile
func (h *Handlers) GetMenu(c *gin.Context) {
	m, widgetID, ok := h.menu(c)
	if !ok {
		return
	}
	if m == nil {
		c.JSON(http.StatusOK, gin.H{
			"widgetId": widgetID,
			"actions":  []string{},
		})
		return
	}
	c.JSON(http.StatusOK, m.State())
}

// RequestEdit opens the widget options modal
func (h *Handlers) RequestEdit(c *gin.Context) {
	m, ok := h.requireMenu(c)
	if !ok {
		return
	}
	if err := m.RequestEdit(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"modal": types.ModalWidgetEdit})
}

// RequestResize opens the position modal
func (h *Handlers) RequestResize(c *gin.Context) {
	m, ok := h.requireMenu(c)
	if !ok {
		return
	}
	m.RequestResize()
	c.JSON(http.StatusAccepted, gin.H{"modal": types.ModalWidgetPosition})
}

// RequestRemove opens the remove confirmation
func (h *Handlers) RequestRemove(c *gin.Context) {
	m, ok := h.requireMenu(c)
	if !ok {
		return
	}
	m.RequestRemove()
	c.JSON(http.StatusAccepted, gin.H{"modal": types.ModalWidgetRemove})
}

// UpdateProperties applies the submitted options modal
func (h *Handlers) UpdateProperties(c *gin.Context) {
	widgetID, ok := widgetParam(c)
	if !ok {
		return
	}
	var req types.PropertiesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.editor.ApplyEdit(widgetID, req.Properties)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"widget": w})
}

// UpdateArea applies the submitted position modal
func (h *Handlers) UpdateArea(c *gin.Context) {
	widgetID, ok := widgetParam(c)
	if !ok {
		return
	}
	var area types.Area
	if err := c.ShouldBindJSON(&area); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.editor.ApplyArea(widgetID, area)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"widget": w})
}

// RemoveWidget applies the confirmed removal
func (h *Handlers) RemoveWidget(c *gin.Context) {
	widgetID, ok := widgetParam(c)
	if !ok {
		return
	}
	if err := h.editor.Remove(widgetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"widget_id": widgetID,
	})
}

func widgetParam(c *gin.Context) (string, bool) {
	widgetID := c.Param("id")
	if err := utils.ValidateID(widgetID, "widget_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return widgetID, true
}

// menu builds the tile menu of the widget named in the path. A nil menu
// with ok set means the widget exists but no action is available.
func (h *Handlers) menu(c *gin.Context) (*menu.Menu, string, bool) {
	widgetID, ok := widgetParam(c)
	if !ok {
		return nil, "", false
	}

	w, found := h.store.Widget(widgetID)
	if !found {
		fail(c, store.ErrWidgetNotFound)
		return nil, widgetID, false
	}

	var columns *int
	if n, known := h.store.ColumnCount(); known {
		columns = &n
	}
	d := h.dispatcher
	if o := h.opener(c); o != nil {
		d = d.WithOpener(o)
	}
	return d.Menu(c.Query("integration"), &w, columns), widgetID, true
}

func (h *Handlers) requireMenu(c *gin.Context) (*menu.Menu, bool) {
	m, _, ok := h.menu(c)
	if !ok {
		return nil, false
	}
	if m == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no actions available until the layout reports its column count"})
		return nil, false
	}
	return m, true
}
