package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homeserve/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetServices returns the catalog, optionally filtered by category.
func (h *Handler) GetServices(c *gin.Context) {
	services, err := h.repo.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load service")
		return
	}
	response.Success(c, http.StatusOK, s)
}
