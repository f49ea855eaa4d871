package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
)

type MongoProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(collection *mongo.Collection) *MongoProfileRepository {
	return &MongoProfileRepository{collection: collection}
}

// FindByDevice busca el perfil único del dispositivo
func (r *MongoProfileRepository) FindByDevice(ctx context.Context, deviceID string) (*models.DeviceProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var profile models.DeviceProfile
	if err := r.collection.FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Profile")
		}
		return nil, apperr.Store("find profile", err)
	}
	return &profile, nil
}

// Insert crea el perfil; si otro request ganó la carrera el índice
// único de deviceId lo reporta como ErrAlreadyExists
func (r *MongoProfileRepository) Insert(ctx context.Context, profile *models.DeviceProfile) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	profile.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return apperr.Store("insert profile", err)
	}
	return nil
}

// Replace persiste el documento completo (last-write-wins)
func (r *MongoProfileRepository) Replace(ctx context.Context, profile *models.DeviceProfile) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"deviceId": profile.DeviceID}, profile)
	if err != nil {
		return apperr.Store("replace profile", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Profile")
	}
	return nil
}

// TouchLastActive refresca lastActive sin tocar el resto del perfil
func (r *MongoProfileRepository) TouchLastActive(ctx context.Context, deviceID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"deviceId": deviceID},
		bson.M{"$set": bson.M{"lastActive": at}},
	)
	if err != nil {
		return apperr.Store("touch profile", err)
	}
	return nil
}
