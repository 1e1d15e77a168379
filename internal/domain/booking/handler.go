package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeserve/internal/domain/auth"
	"homeserve/internal/domain/catalog"
	"homeserve/internal/pkg/response"
	"homeserve/internal/pkg/validator"
)

type Handler struct {
	service  *Service
	userRepo *auth.UserRepository
	catalog  *catalog.Repository
}

func NewHandler(service *Service, userRepo *auth.UserRepository, catalogRepo *catalog.Repository) *Handler {
	return &Handler{
		service:  service,
		userRepo: userRepo,
		catalog:  catalogRepo,
	}
}

func (h *Handler) toResponse(c *gin.Context, b *Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		ServiceName: h.catalog.NameByID(c.Request.Context(), b.ServiceID),
		Address:     b.Address,
		Lat:         b.Lat,
		Lng:         b.Lng,
		Status:      b.Status,
		HelperName:  b.HelperName,
		HelperPhone: b.HelperPhone,
		EtaMinutes:  b.EtaMinutes,
		ScheduledAt: b.ScheduledAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// CreateBooking creates a pending booking owned by the caller.
func (h *Handler) CreateBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	p := CreateParams{
		ServiceID: req.ServiceID,
		Address:   req.Address,
		Lat:       req.Lat,
		Lng:       req.Lng,
	}
	if req.ScheduledAt != nil {
		p.ScheduledAt = *req.ScheduledAt
	}

	b, err := h.service.Create(c.Request.Context(), userID, p)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, h.toResponse(c, b))
}

// GetMyBookings lists the caller's booking history, newest first.
func (h *Handler) GetMyBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")

	rows, err := h.service.ListByCustomer(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load bookings")
		return
	}

	out := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, h.toResponse(c, &rows[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load booking")
		return
	}

	// customers may only see their own bookings; helpers see any
	if c.GetString("role") == string(auth.RoleCustomer) && b.CustomerID != c.GetInt64("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		return
	}

	response.Success(c, http.StatusOK, h.toResponse(c, b))
}

// CancelBooking withdraws a pending booking. Losing the race to a
// helper's accept reports the booking as no longer available.
func (h *Handler) CancelBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")

	b, err := h.service.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		case errors.Is(err, ErrNotCancellable):
			response.Error(c, http.StatusConflict, "NOT_CANCELLABLE", "Booking is no longer available to cancel")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to cancel booking")
		}
		return
	}

	response.Success(c, http.StatusOK, h.toResponse(c, b))
}

// GetLeads lists pending bookings available to helpers.
func (h *Handler) GetLeads(c *gin.Context) {
	rows, err := h.service.ListLeads(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load leads")
		return
	}

	out := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, h.toResponse(c, &rows[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"leads": out})
}

// AcceptLead claims a pending booking for the calling helper. A lost
// race is a 409, not a server fault.
func (h *Handler) AcceptLead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	helper, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown helper")
		return
	}

	b, err := h.service.Accept(c.Request.Context(), c.Param("id"), helper.ID, helper.Name, helper.Phone)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrAlreadyTaken):
			response.Error(c, http.StatusConflict, "ALREADY_TAKEN", "Lead already taken")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to accept lead")
		}
		return
	}

	response.Success(c, http.StatusOK, h.toResponse(c, b))
}

// AdvanceBooking moves an accepted job one step forward.
func (h *Handler) AdvanceBooking(c *gin.Context) {
	b, err := h.service.Advance(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your job")
		case errors.Is(err, ErrInvalidStatusTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking cannot be advanced")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to advance booking")
		}
		return
	}

	response.Success(c, http.StatusOK, h.toResponse(c, b))
}
