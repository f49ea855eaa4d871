package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"riftory-api/internal/models"
)

// ErrAlreadyExists lo produce una violación del índice único; para adds
// concurrentes del mismo par el perdedor lo trata como "ya existe"
var ErrAlreadyExists = errors.New("document already exists")

// ProductFilter son los filtros del listado. UpsideDown parte el
// universo en dos: un query pide exactamente una partición, nunca ambas.
type ProductFilter struct {
	Category   string
	DeviceID   string
	UpsideDown bool
	Limit      int64
	Skip       int64
}

// query arma el bson.M del listado. Siempre limita a documentos
// activos y a exactamente una partición: el predicado $ne:true hace
// que documentos viejos sin el campo cuenten como normales.
func (f ProductFilter) query() bson.M {
	query := bson.M{"isActive": true}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.DeviceID != "" {
		query["deviceId"] = f.DeviceID
	}
	if f.UpsideDown {
		query["isUpsideDown"] = true
	} else {
		query["isUpsideDown"] = bson.M{"$ne": true}
	}
	return query
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	CountActiveByDevice(ctx context.Context, deviceID string) (int64, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *models.Favorite) error
	FindOne(ctx context.Context, deviceID string, productID primitive.ObjectID) (*models.Favorite, error)
	FindByDevice(ctx context.Context, deviceID string) ([]models.Favorite, error)
	Delete(ctx context.Context, deviceID string, productID primitive.ObjectID) error
	CountByDevice(ctx context.Context, deviceID string) (int64, error)
}

type ProfileRepository interface {
	FindByDevice(ctx context.Context, deviceID string) (*models.DeviceProfile, error)
	Insert(ctx context.Context, profile *models.DeviceProfile) error
	Replace(ctx context.Context, profile *models.DeviceProfile) error
	TouchLastActive(ctx context.Context, deviceID string, at time.Time) error
}
