package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"riftory-api/internal/httpx"
	"riftory-api/internal/models"
	"riftory-api/internal/services"
)

// ProfileService es lo que el handler necesita del orquestador
type ProfileService interface {
	GetOrCreate(ctx context.Context, deviceID string) (*models.DeviceProfile, error)
	Update(ctx context.Context, deviceID string, input services.UpdateProfileInput) (*models.DeviceProfile, error)
	Stats(ctx context.Context, deviceID string) (*services.ProfileStats, error)
}

type ProfileHandler struct {
	service ProfileService
}

func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile maneja GET /api/profile/:deviceId (read-or-create,
// nunca 404 para un deviceId desconocido)
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetOrCreate(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err, "Failed to get profile")
		return
	}
	httpx.OK(c, profile)
}

// UpdateProfile maneja PUT /api/profile/:deviceId
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, 400, "Invalid request body")
		return
	}

	profile, err := h.service.Update(c.Request.Context(), c.Param("deviceId"), input)
	if err != nil {
		httpx.Error(c, err, "Failed to update profile")
		return
	}
	httpx.OK(c, profile)
}

// GetStats maneja GET /api/profile/:deviceId/stats
func (h *ProfileHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err, "Failed to get stats")
		return
	}
	httpx.OK(c, stats)
}
