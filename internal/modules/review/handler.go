package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"safaribook/internal/middleware"
	"safaribook/internal/pkg/response"
	"safaribook/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/reviews", h.List)
	}
	if protected != nil {
		protected.POST("/reviews", h.Create)
	}
}

// List serves GET /reviews?type=hotel&itemId=3.
func (h *Handler) List(c *gin.Context) {
	itemType := c.Query("type")
	rawID := c.Query("itemId")
	if itemType == "" || rawID == "" {
		response.Error(c, http.StatusBadRequest, "type and itemId required")
		return
	}
	itemID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "itemId must be a number")
		return
	}

	rows, err := h.svc.ListForItem(c.Request.Context(), itemType, itemID)
	if err != nil {
		if errors.Is(err, ErrUnknownItem) || errors.Is(err, ErrInvalidRequest) {
			response.Error(c, http.StatusBadRequest, "type must be hotel or safari and itemId positive")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

func (h *Handler) Create(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		if missing := validator.Missing(errs); len(missing) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "Missing required fields", missing)
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid fields", errs)
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), member, req)
	if err != nil {
		if errors.Is(err, ErrUnknownItem) {
			response.Error(c, http.StatusBadRequest, "item_type must be hotel or safari")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusCreated, rv)
}
