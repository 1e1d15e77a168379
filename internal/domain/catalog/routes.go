package catalog

import "github.com/gin-gonic/gin"

// RegisterRoutes registers public catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.GetServices)
	rg.GET("/services/:id", h.GetService)
}
