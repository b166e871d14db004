package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"safaribook/internal/middleware"
	"safaribook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking endpoints. optional resolves guests,
// strict requires a token and admin additionally requires the admin flag.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optional, strict, admin gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", optional, h.CreateBooking)
		bookings.GET("", strict, h.ListBookings)
		bookings.PATCH("/:id/status", strict, admin, h.UpdateStatus)
		bookings.DELETE("/:id", strict, h.DeleteBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}

	response.JSON(c, http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied")
		return
	}

	list, err := h.service.List(c.Request.Context(), member)
	if err != nil {
		h.writeError(c, err, "Failed to load bookings")
		return
	}

	response.JSON(c, http.StatusOK, list)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Missing required fields", []string{"status"})
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), id, req.Status, req.Amount)
	if err != nil {
		h.writeError(c, err, "Failed to update booking")
		return
	}

	response.JSON(c, http.StatusOK, b)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), member, id)
	if err != nil {
		h.writeError(c, err, "Failed to delete booking")
		return
	}

	response.JSON(c, http.StatusOK, DeleteBookingResponse{Success: true, Deleted: deleted})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Missing) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, verr.Message, verr.Missing)
			return
		}
		response.Error(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "Item is not available for the selected dates")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "Booking was changed by another request")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid booking id")
		return 0, false
	}
	return id, true
}
