package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"safaribook/internal/pkg/response"
	"safaribook/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cities", h.ListCities)
	rg.GET("/hotels", h.ListHotels)
	rg.GET("/hotels/:idOrSlug", h.GetHotel)
	rg.GET("/safaris", h.ListSafaris)
	rg.GET("/safaris/:idOrSlug", h.GetSafari)
}

// RegisterAdminRoutes expects a group already guarded by admin auth.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/hotels", h.CreateHotel)
	admin.DELETE("/hotels/:id", h.DeleteHotel)
	admin.POST("/safaris", h.CreateSafari)
	admin.DELETE("/safaris/:id", h.DeleteSafari)
}

func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		serverError(c, err, "db error")
		return
	}
	response.JSON(c, http.StatusOK, cities)
}

func (h *Handler) ListHotels(c *gin.Context) {
	hotels, err := h.service.ListHotels(c.Request.Context(), c.Query("city"))
	if err != nil {
		serverError(c, err, "db error")
		return
	}
	response.JSON(c, http.StatusOK, hotels)
}

func (h *Handler) GetHotel(c *gin.Context) {
	hotel, err := h.service.GetHotel(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.Error(c, http.StatusNotFound, "Hotel not found")
			return
		}
		serverError(c, err, "Server Error")
		return
	}
	response.JSON(c, http.StatusOK, hotel)
}

func (h *Handler) ListSafaris(c *gin.Context) {
	safaris, err := h.service.ListSafaris(c.Request.Context(), c.Query("city"))
	if err != nil {
		serverError(c, err, "db error")
		return
	}
	response.JSON(c, http.StatusOK, safaris)
}

func (h *Handler) GetSafari(c *gin.Context) {
	safari, err := h.service.GetSafari(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		if errors.Is(err, ErrSafariNotFound) {
			response.Error(c, http.StatusNotFound, "Safari not found")
			return
		}
		serverError(c, err, "Server Error")
		return
	}
	response.JSON(c, http.StatusOK, safari)
}

func (h *Handler) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if !bindAndValidate(c, &req) {
		return
	}

	hotel, err := h.service.CreateHotel(c.Request.Context(), req)
	if err != nil {
		writeCreateError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, hotel)
}

func (h *Handler) DeleteHotel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	hotel, err := h.service.DeleteHotel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.Error(c, http.StatusNotFound, "Hotel not found")
			return
		}
		serverError(c, err, "Failed to delete hotel")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "deleted": hotel})
}

func (h *Handler) CreateSafari(c *gin.Context) {
	var req CreateSafariRequest
	if !bindAndValidate(c, &req) {
		return
	}

	safari, err := h.service.CreateSafari(c.Request.Context(), req)
	if err != nil {
		writeCreateError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, safari)
}

func (h *Handler) DeleteSafari(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	safari, err := h.service.DeleteSafari(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSafariNotFound) {
			response.Error(c, http.StatusNotFound, "Safari not found")
			return
		}
		serverError(c, err, "Failed to delete safari")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "deleted": safari})
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if n, ok := req.(interface{ normalize() }); ok {
		n.normalize()
	}
	if errs := validator.Validate(req); errs != nil {
		if missing := validator.Missing(errs); len(missing) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "Missing required fields", missing)
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid fields", errs)
		return false
	}
	return true
}

func writeCreateError(c *gin.Context, err error) {
	if errors.Is(err, ErrSlugTaken) {
		response.Error(c, http.StatusConflict, "Slug already exists")
		return
	}
	serverError(c, err, "Failed to create item")
}

func serverError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, msg)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
