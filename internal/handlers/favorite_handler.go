package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"riftory-api/internal/httpx"
	"riftory-api/internal/models"
)

// FavoriteService es lo que el handler necesita del orquestador
type FavoriteService interface {
	Add(ctx context.Context, deviceID, productID string) (*models.FavoriteWithProduct, bool, error)
	Remove(ctx context.Context, deviceID, productID string) error
	List(ctx context.Context, deviceID string) ([]models.FavoriteWithProduct, error)
	Check(ctx context.Context, deviceID, productID string) (bool, error)
}

type FavoriteHandler struct {
	service FavoriteService
}

func NewFavoriteHandler(service FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

type favoriteRequest struct {
	DeviceID  string `json:"deviceId"`
	ProductID string `json:"productId"`
}

// GetFavorites maneja GET /api/favorites/:deviceId
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	favorites, err := h.service.List(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err, "Failed to fetch favorites")
		return
	}
	httpx.OKList(c, favorites, len(favorites))
}

// AddFavorite maneja POST /api/favorites. Re-agregar un favorito
// existente es éxito idempotente, no error de duplicado.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	_ = c.ShouldBindJSON(&req)

	favorite, created, err := h.service.Add(c.Request.Context(), req.DeviceID, req.ProductID)
	if err != nil {
		httpx.Error(c, err, "Failed to add favorite")
		return
	}

	if !created {
		httpx.OKMessage(c, favorite, "Already in favorites")
		return
	}
	httpx.Created(c, favorite)
}

// RemoveFavorite maneja DELETE /api/favorites
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	var req favoriteRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Remove(c.Request.Context(), req.DeviceID, req.ProductID); err != nil {
		httpx.Error(c, err, "Failed to remove favorite")
		return
	}
	httpx.Message(c, "Removed from favorites")
}

// CheckFavorite maneja GET /api/favorites/check/:deviceId/:productId.
// La ausencia nunca es error: responde isFavorite:false.
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	isFavorite, err := h.service.Check(c.Request.Context(), c.Param("deviceId"), c.Param("productId"))
	if err != nil {
		httpx.Error(c, err, "Failed to check favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isFavorite": isFavorite})
}
