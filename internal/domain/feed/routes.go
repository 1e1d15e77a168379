package feed

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the realtime feed endpoint. Auth happens
// inside the handler via the token query parameter.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/feed", h.HandleFeed)
}
