package http

import "github.com/gin-gonic/gin"

// Register mounts every REST route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	defs := r.Group("/widgets/definitions")
	{
		defs.GET("", h.ListDefinitions)
		defs.GET("/:type", h.GetDefinition)
	}

	configs := r.Group("/configs")
	{
		configs.GET("", h.ListConfigs)
		configs.POST("/import", h.ImportConfig)
		configs.POST("/:name/activate", h.ActivateConfig)
		configs.POST("/:name/restore", h.RestoreConfig)

		configs.GET("/active", h.GetActiveConfig)
		configs.DELETE("/active", h.DeleteConfig)
		configs.GET("/active/export", h.ExportConfig)
		configs.POST("/active/duplicate", h.DuplicateConfig)
		configs.POST("/active/copy", h.CopyConfig)
	}

	r.PUT("/layout/columns", h.SetColumns)

	widgets := r.Group("/widgets")
	{
		widgets.POST("", h.AddWidget)
		widgets.GET("/:id/menu", h.GetMenu)
		widgets.POST("/:id/edit", h.RequestEdit)
		widgets.POST("/:id/resize", h.RequestResize)
		widgets.POST("/:id/remove", h.RequestRemove)
		widgets.PUT("/:id/properties", h.UpdateProperties)
		widgets.PUT("/:id/area", h.UpdateArea)
		widgets.DELETE("/:id", h.RemoveWidget)
	}
}
