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

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	queryTimeout = 10 * time.Second
)

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{collection: collection}
}

// Create inserta un producto nuevo
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsActive = true

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return apperr.Store("insert product", err)
	}
	return nil
}

// FindByID obtiene un producto por ID
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Product")
	}

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Product")
		}
		return nil, apperr.Store("find product", err)
	}
	return &product, nil
}

// Find lista productos activos según el filtro, nuevos primero
func (r *MongoProductRepository) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := filter.query()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}
	if filter.Skip > 0 {
		findOptions.SetSkip(filter.Skip)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, apperr.Store("find products", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Store("decode products", err)
	}
	return products, nil
}

// FindByIDs trae los productos referenciados, indexados por _id.
// Lo usa el join de favoritos: los ids que no aparecen en el mapa son
// referencias colgantes.
func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	byID := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Store("find products by ids", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Store("decode products", err)
	}

	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// Update aplica un $set y retorna el documento ya actualizado
func (r *MongoProductRepository) Update(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Product")
	}

	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Product")
		}
		return nil, apperr.Store("update product", err)
	}
	return &updated, nil
}

// Delete elimina el documento definitivamente (sin tombstone)
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Product")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Store("delete product", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// CountActiveByDevice cuenta las publicaciones activas del dispositivo
func (r *MongoProductRepository) CountActiveByDevice(ctx context.Context, deviceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"deviceId": deviceID, "isActive": true})
	if err != nil {
		return 0, apperr.Store("count products", err)
	}
	return count, nil
}
