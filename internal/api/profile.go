package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService service.IProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, log: log}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/stream", h.StreamProfile)
	}
}

// GetProfile returns the caller's profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile saves name, date of birth and favorite cuisine
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), middleware.UserID(c), middleware.Email(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// StreamProfile pushes the profile on every change
func (h *ProfileHandler) StreamProfile(c *gin.Context) {
	snapshots, err := h.profileService.WatchProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	streamEvents(c, "profile", snapshots)
}
