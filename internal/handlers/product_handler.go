package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"riftory-api/internal/cache"
	"riftory-api/internal/httpx"
	"riftory-api/internal/models"
	"riftory-api/internal/repository"
)

const (
	defaultListLimit = 50
	listCacheTTL     = 1 * time.Minute
)

// ProductService es lo que el handler necesita del orquestador
type ProductService interface {
	Create(ctx context.Context, product *models.Product, images []string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id, deviceID string, patch map[string]interface{}, images []string) (*models.Product, error)
	Delete(ctx context.Context, id, deviceID string) error
}

type ProductHandler struct {
	service ProductService
	cache   *cache.Cache
}

func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
		cache:   cache.Get(),
	}
}

type createProductRequest struct {
	Title        string         `json:"title" binding:"required"`
	Price        float64        `json:"price" binding:"required"`
	Description  string         `json:"description" binding:"required"`
	Category     string         `json:"category" binding:"required"`
	Images       []string       `json:"images"`
	DeviceID     string         `json:"deviceId" binding:"required"`
	Seller       *models.Seller `json:"seller"`
	IsUpsideDown bool           `json:"isUpsideDown"`
}

// CreateProduct maneja POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "Missing required fields: title, price, description, category, deviceId")
		return
	}

	product := &models.Product{
		Title:        req.Title,
		Price:        req.Price,
		Description:  req.Description,
		Category:     req.Category,
		DeviceID:     req.DeviceID,
		IsUpsideDown: req.IsUpsideDown,
	}
	if req.Seller != nil {
		product.Seller = *req.Seller
	}

	created, err := h.service.Create(c.Request.Context(), product, req.Images)
	if err != nil {
		httpx.Error(c, err, "Failed to create product")
		return
	}

	h.cache.DeleteByPrefix("products:")
	httpx.Created(c, created)
}

// GetProducts maneja GET /api/products (feed particionado)
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category:   c.Query("category"),
		UpsideDown: c.Query("upsideDown") == "true",
		Limit:      parseInt64(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)), defaultListLimit),
		Skip:       parseInt64(c.DefaultQuery("skip", "0"), 0),
	}

	cacheKey := fmt.Sprintf("products:list:cat:%s_ud:%v_l%d_s%d",
		filter.Category, filter.UpsideDown, filter.Limit, filter.Skip)
	if cached, found := h.cache.GetValue(cacheKey); found {
		if products, ok := cached.([]models.Product); ok {
			httpx.OKList(c, products, len(products))
			return
		}
	}

	products, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch products")
		return
	}

	h.cache.Set(cacheKey, products, listCacheTTL)
	httpx.OKList(c, products, len(products))
}

// GetMyProducts maneja GET /api/products/my/:deviceId
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		DeviceID:   c.Param("deviceId"),
		UpsideDown: c.Query("upsideDown") == "true",
	}

	products, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch your listings")
		return
	}

	httpx.OKList(c, products, len(products))
}

// GetProductByID maneja GET /api/products/:id
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	cacheKey := "products:id:" + id
	if cached, found := h.cache.GetValue(cacheKey); found {
		if product, ok := cached.(*models.Product); ok {
			httpx.OK(c, product)
			return
		}
	}

	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch product")
		return
	}

	h.cache.Set(cacheKey, product, listCacheTTL)
	httpx.OK(c, product)
}

// UpdateProduct maneja PUT /api/products/:id (sólo el dueño)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Fail(c, 400, "Invalid request body")
		return
	}

	deviceID, _ := body["deviceId"].(string)
	delete(body, "deviceId")

	// Las imágenes del patch son payloads embebidos para resubir,
	// no se escriben tal cual en el documento
	images := extractStrings(body["images"])
	delete(body, "images")

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), deviceID, body, images)
	if err != nil {
		httpx.Error(c, err, "Failed to update product")
		return
	}

	h.cache.DeleteByPrefix("products:")
	httpx.OK(c, updated)
}

type deleteProductRequest struct {
	DeviceID string `json:"deviceId"`
}

// DeleteProduct maneja DELETE /api/products/:id (sólo el dueño)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	var req deleteProductRequest
	// Un body vacío deja deviceId en cero y cae en el chequeo de dueño
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), req.DeviceID); err != nil {
		httpx.Error(c, err, "Failed to delete product")
		return
	}

	h.cache.DeleteByPrefix("products:")
	httpx.Message(c, "Product deleted successfully")
}

func parseInt64(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func extractStrings(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
