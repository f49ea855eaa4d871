package services

import (
	"context"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"riftory-api/internal/apperr"
	"riftory-api/internal/media"
	"riftory-api/internal/models"
	"riftory-api/internal/repository"
)

// Campos de sistema que un patch de cliente nunca puede pisar
var protectedProductFields = []string{"_id", "id", "deviceId", "createdAt", "isActive", "formattedPrice", "seller.id"}

// ProductService orquesta el ciclo de vida de las publicaciones:
// secuencia las subidas/borrados de imágenes con las escrituras en la
// base y aplica el chequeo de propiedad.
type ProductService struct {
	products repository.ProductRepository
	media    media.Store
	folder   string
}

func NewProductService(products repository.ProductRepository, store media.Store, folder string) *ProductService {
	return &ProductService{products: products, media: store, folder: folder + "/products"}
}

// Create valida, sube las imágenes (todo-o-nada) y recién después
// persiste: si el host de medios falla no queda escritura parcial.
func (s *ProductService) Create(ctx context.Context, product *models.Product, images []string) (*models.Product, error) {
	if err := models.ValidateProduct(product); err != nil {
		return nil, err
	}

	uploaded := make([]models.Image, 0)
	if len(images) > 0 {
		zap.S().Infow("[Products] Uploading images", "count", len(images))
		var err error
		uploaded, err = s.media.UploadBatch(ctx, images, s.folder)
		if err != nil {
			return nil, err
		}
	}

	product.Images = uploaded
	product.ImageURL = ""
	if len(uploaded) > 0 {
		product.ImageURL = uploaded[0].URL
	}

	if (product.Seller == models.Seller{}) {
		product.Seller = models.DefaultSeller(product.DeviceID)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	zap.S().Infow("[Products] Created product", "title", product.Title, "id", product.ID.Hex())
	return product, nil
}

// GetByID obtiene una publicación
func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List lista la partición pedida (Upside Down o normal, nunca ambas)
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	return s.products.Find(ctx, filter)
}

// Update aplica el patch sólo si el deviceId es el dueño. Si el patch
// trae imágenes nuevas, las viejas se borran del host (best-effort)
// antes de subir el reemplazo, y se pisa el set completo.
func (s *ProductService) Update(ctx context.Context, id, deviceID string, patch map[string]interface{}, images []string) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(deviceID) {
		return nil, apperr.Forbidden("Not authorized to update this product")
	}

	sanitizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if len(images) > 0 {
		// El borrado es best-effort y síncrono acá porque el orden
		// importa: primero liberar el set viejo, después subir el nuevo
		if ids := existing.PublicIDs(); len(ids) > 0 {
			s.media.DeleteBatch(ctx, ids)
		}

		uploaded, err := s.media.UploadBatch(ctx, images, s.folder)
		if err != nil {
			return nil, err
		}

		patch["images"] = uploaded
		patch["imageUrl"] = ""
		if len(uploaded) > 0 {
			patch["imageUrl"] = uploaded[0].URL
		}
	}

	updated, err := s.products.Update(ctx, id, bson.M(patch))
	if err != nil {
		return nil, err
	}

	zap.S().Infow("[Products] Updated product", "id", id, "title", updated.Title)
	return updated, nil
}

// Delete borra la publicación definitivamente. La purga de imágenes es
// fire-and-forget: su resultado sólo se loguea, nunca bloquea el borrado.
func (s *ProductService) Delete(ctx context.Context, id, deviceID string) error {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.OwnedBy(deviceID) {
		return apperr.Forbidden("Not authorized to delete this product")
	}

	if ids := existing.PublicIDs(); len(ids) > 0 {
		go s.media.DeleteBatch(context.Background(), ids)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	zap.S().Infow("[Products] Deleted product", "id", id, "title", existing.Title)
	return nil
}

func sanitizePatch(patch map[string]interface{}) {
	for _, field := range protectedProductFields {
		delete(patch, field)
	}
}

// validatePatch re-aplica los límites declarativos sobre los campos
// conocidos presentes en el patch; el resto pasa tal cual
func validatePatch(patch map[string]interface{}) error {
	if title, ok := patch["title"].(string); ok {
		if title == "" {
			return apperr.Validation("title", "title cannot be empty")
		}
		if utf8.RuneCountInString(title) > 100 {
			return apperr.Validation("title", "title must be at most 100 characters")
		}
	}
	if description, ok := patch["description"].(string); ok && utf8.RuneCountInString(description) > 500 {
		return apperr.Validation("description", "description must be at most 500 characters")
	}
	if price, ok := patch["price"].(float64); ok && price < 0 {
		return apperr.Validation("price", "price cannot be negative")
	}
	if category, ok := patch["category"].(string); ok && !models.IsValidCategory(category) {
		return apperr.Validation("category", "unknown category: "+category)
	}
	return nil
}
