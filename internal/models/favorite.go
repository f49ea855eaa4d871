package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite es la relación débil device -> producto. La referencia no es
// una foreign key: el producto puede desaparecer y el favorito queda,
// los lectores filtran referencias colgantes al momento del join.
type Favorite struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID  string             `json:"deviceId" bson:"deviceId"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	SavedAt   time.Time          `json:"savedAt" bson:"savedAt"`
}

// FavoriteWithProduct es el favorito ya unido con su producto para la API
type FavoriteWithProduct struct {
	ID        primitive.ObjectID `json:"id"`
	DeviceID  string             `json:"deviceId"`
	ProductID primitive.ObjectID `json:"productId"`
	SavedAt   time.Time          `json:"savedAt"`
	Product   *Product           `json:"product"`
}
