package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safaribook/internal/pkg/response"
)

const formField = "photo"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
}

// Upload accepts multipart field "photo" and returns {"url": ...}.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.maxSize+1<<20)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.Error(c, http.StatusRequestEntityTooLarge, ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	url, err := h.service.Save(fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"url": url})
}
