package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers public auth routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes registers routes that require a valid token
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.GetMe)
	rg.PUT("/users/me", h.UpdateMe)
}
