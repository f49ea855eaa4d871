package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
)

type MongoFavoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(collection *mongo.Collection) *MongoFavoriteRepository {
	return &MongoFavoriteRepository{collection: collection}
}

// Create inserta el favorito; una violación del índice único
// (deviceId, productId) se reporta como ErrAlreadyExists
func (r *MongoFavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	favorite.ID = primitive.NewObjectID()
	favorite.SavedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, favorite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return apperr.Store("insert favorite", err)
	}
	return nil
}

// FindOne busca el favorito exacto del par (deviceId, productId)
func (r *MongoFavoriteRepository) FindOne(ctx context.Context, deviceID string, productID primitive.ObjectID) (*models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var favorite models.Favorite
	filter := bson.M{"deviceId": deviceID, "productId": productID}
	if err := r.collection.FindOne(ctx, filter).Decode(&favorite); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Favorite")
		}
		return nil, apperr.Store("find favorite", err)
	}
	return &favorite, nil
}

// FindByDevice lista los favoritos del dispositivo, recientes primero
func (r *MongoFavoriteRepository) FindByDevice(ctx context.Context, deviceID string) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"deviceId": deviceID}, opts)
	if err != nil {
		return nil, apperr.Store("find favorites", err)
	}
	defer cursor.Close(ctx)

	favorites := make([]models.Favorite, 0)
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, apperr.Store("decode favorites", err)
	}
	return favorites, nil
}

// Delete borra el favorito del par; NotFound si no existía
func (r *MongoFavoriteRepository) Delete(ctx context.Context, deviceID string, productID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"deviceId": deviceID, "productId": productID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return apperr.Store("delete favorite", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Favorite")
	}
	return nil
}

// CountByDevice cuenta todos los favoritos del dispositivo
func (r *MongoFavoriteRepository) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"deviceId": deviceID})
	if err != nil {
		return 0, apperr.Store("count favorites", err)
	}
	return count, nil
}
