package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/service"
)

type PhotoHandler struct {
	photoService service.IPhotoService
	log          *zap.Logger
}

func NewPhotoHandler(photoService service.IPhotoService, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photoService: photoService, log: log}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/photo", h.UploadURL)
	router.GET("/recipes/:id/photo", h.DownloadURL)
}

// UploadURL returns a presigned URL the client PUTs the photo to
func (h *PhotoHandler) UploadURL(c *gin.Context) {
	resp, err := h.photoService.UploadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadURL returns a presigned URL to fetch the photo from
func (h *PhotoHandler) DownloadURL(c *gin.Context) {
	resp, err := h.photoService.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
