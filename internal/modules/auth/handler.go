package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safaribook/internal/middleware"
	"safaribook/internal/pkg/response"
	"safaribook/internal/repository"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Name, valid email and a password of at least 6 characters are required")
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "User exists")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	response.JSON(c, http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	response.JSON(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access denied")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), member.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to load user")
		return
	}

	response.JSON(c, http.StatusOK, user)
}
