package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
	"riftory-api/internal/repository"
)

// FavoriteService maneja la relación débil device -> producto.
// El índice único de la colección es el único mecanismo de
// serialización frente a adds concurrentes.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, products repository.ProductRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, products: products}
}

// Add agrega el producto a favoritos. Idempotente: si el par ya existe
// (o se pierde la carrera contra otro add) devuelve el existente como
// éxito, no como error.
func (s *FavoriteService) Add(ctx context.Context, deviceID, productID string) (*models.FavoriteWithProduct, bool, error) {
	if deviceID == "" || productID == "" {
		return nil, false, apperr.Validation("deviceId", "Missing required fields: deviceId, productId")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.favorites.FindOne(ctx, deviceID, product.ID)
	if err == nil {
		return joinFavorite(existing, product), false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	favorite := &models.Favorite{DeviceID: deviceID, ProductID: product.ID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Perdimos la carrera: el otro add ya lo creó
			existing, err := s.favorites.FindOne(ctx, deviceID, product.ID)
			if err != nil {
				return nil, false, err
			}
			return joinFavorite(existing, product), false, nil
		}
		return nil, false, err
	}

	zap.S().Infow("[Favorites] Added favorite", "deviceId", deviceID, "productId", productID)
	return joinFavorite(favorite, product), true, nil
}

// Remove saca el producto de favoritos; NotFound si no estaba
func (s *FavoriteService) Remove(ctx context.Context, deviceID, productID string) error {
	if deviceID == "" || productID == "" {
		return apperr.Validation("deviceId", "Missing required fields: deviceId, productId")
	}

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return apperr.NotFound("Favorite")
	}

	if err := s.favorites.Delete(ctx, deviceID, objID); err != nil {
		return err
	}

	zap.S().Infow("[Favorites] Removed favorite", "deviceId", deviceID, "productId", productID)
	return nil
}

// List une cada favorito con su producto y descarta las referencias
// colgantes (producto borrado) y los productos del Upside Down,
// manteniendo el orden savedAt descendente.
func (s *FavoriteService) List(ctx context.Context, deviceID string) ([]models.FavoriteWithProduct, error) {
	favorites, err := s.favorites.FindByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}

	productsByID, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	valid := make([]models.FavoriteWithProduct, 0, len(favorites))
	for i := range favorites {
		product, found := productsByID[favorites[i].ProductID]
		if !found || product.IsUpsideDown {
			continue
		}
		valid = append(valid, *joinFavorite(&favorites[i], &product))
	}
	return valid, nil
}

// Check es un predicado puro de existencia: la ausencia no es error
func (s *FavoriteService) Check(ctx context.Context, deviceID, productID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return false, nil
	}

	_, err = s.favorites.FindOne(ctx, deviceID, objID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func joinFavorite(favorite *models.Favorite, product *models.Product) *models.FavoriteWithProduct {
	return &models.FavoriteWithProduct{
		ID:        favorite.ID,
		DeviceID:  favorite.DeviceID,
		ProductID: favorite.ProductID,
		SavedAt:   favorite.SavedAt,
		Product:   product,
	}
}
