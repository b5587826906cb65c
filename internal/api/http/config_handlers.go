package http

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/lifecycle"
	"github.com/GriffinCanCode/Dashboard/backend/internal/domain/store"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/utils"
)

// maxImportSize bounds an uploaded config document
const maxImportSize = 1 << 20

// attachment hands exported files to the browser as a download
type attachment struct {
	c *gin.Context
}

func (a attachment) SaveFile(content []byte, filename string) error {
	a.c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	a.c.Data(http.StatusOK, "application/json; charset=utf-8", content)
	return nil
}

// ListConfigs lists the configs held by the store
func (h *Handlers) ListConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configs": h.store.List(),
		"active":  h.store.ActiveName(),
	})
}

// GetActiveConfig returns the active config
func (h *Handlers) GetActiveConfig(c *gin.Context) {
	cfg, ok := h.store.Active()
	if !ok {
		fail(c, store.ErrNoActiveConfig)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// ActivateConfig switches the active config, loading it if needed
func (h *Handlers) ActivateConfig(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateConfigName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.lifecycle.Activate(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg.ToMetadata()})
}

// ExportConfig downloads the active config as <name>.json
func (h *Handlers) ExportConfig(c *gin.Context) {
	if _, err := h.lifecycle.Export(c.Request.Context(), attachment{c: c}); err != nil {
		fail(c, err)
	}
}

// DeleteConfig deletes the active config through the persistence backend
func (h *Handlers) DeleteConfig(c *gin.Context) {
	res := h.lifecycle.DeleteActive(c.Request.Context())

	switch res.State {
	case lifecycle.StateCommitted:
		c.JSON(http.StatusOK, gin.H{"result": res})
	case lifecycle.StateRejected:
		c.JSON(http.StatusConflict, gin.H{"result": res, "error": res.Message})
	default:
		status := statusFor(res.Err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		_ = c.Error(res.Err)
		c.JSON(status, gin.H{"result": res, "error": res.Reason()})
	}
}

// RestoreConfig brings back the newest archived copy of a deleted config
func (h *Handlers) RestoreConfig(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateConfigName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.lifecycle.Restore(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"config": cfg.ToMetadata()})
}

// DuplicateConfig opens the naming prompt for a copy of the active config
func (h *Handlers) DuplicateConfig(c *gin.Context) {
	var err error
	if o := h.opener(c); o != nil {
		err = h.lifecycle.DuplicateWith(c.Request.Context(), o)
	} else {
		err = h.lifecycle.Duplicate(c.Request.Context())
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"modal": types.ModalConfigCopy})
}

// CopyConfig completes the duplicate flow with the chosen name
func (h *Handlers) CopyConfig(c *gin.Context) {
	var req types.ConfigNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.lifecycle.CreateCopy(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"config": cfg.ToMetadata()})
}

// ImportConfig stores an uploaded config document
func (h *Handlers) ImportConfig(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateSize(data, maxImportSize); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.lifecycle.Import(c.Request.Context(), data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"config": cfg.ToMetadata()})
}

// SetColumns records the grid width reported by the layout. Zero clears it.
func (h *Handlers) SetColumns(c *gin.Context) {
	var req types.ColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Columns < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns must not be negative"})
		return
	}

	h.store.SetColumnCount(req.Columns)
	columns, ok := h.store.ColumnCount()
	c.JSON(http.StatusOK, gin.H{"columns": columns, "available": ok})
}
