package booking

import (
	"github.com/gin-gonic/gin"

	"homeserve/internal/domain/auth"
	"homeserve/internal/middleware"
)

// RegisterRoutes registers customer-facing booking routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/users/me/bookings", h.GetMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterHelperRoutes registers lead and job-progression routes
func (h *Handler) RegisterHelperRoutes(rg *gin.RouterGroup) {
	helper := rg.Group("/")
	helper.Use(middleware.RequireRole(string(auth.RoleHelper)))
	{
		helper.GET("/leads", h.GetLeads)
		helper.POST("/leads/:id/accept", h.AcceptLead)
		helper.POST("/bookings/:id/advance", h.AdvanceBooking)
	}
}
