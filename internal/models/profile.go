package models

import (
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"riftory-api/internal/apperr"
)

const (
	defaultProfileName   = "Riftory User"
	maxProfileNameLength = 50
)

// ProfileSettings son las preferencias del dispositivo; el update las
// mezcla campo a campo, nunca reemplaza el documento entero
type ProfileSettings struct {
	Notifications bool `json:"notifications" bson:"notifications"`
	DarkMode      bool `json:"darkMode" bson:"darkMode"`
}

// DeviceProfile es el perfil por dispositivo, único por deviceId.
// Leer un deviceId desconocido lo crea con defaults (read-or-create).
type DeviceProfile struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID   string             `json:"deviceId" bson:"deviceId"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Phone      string             `json:"phone" bson:"phone"`
	Address    string             `json:"address" bson:"address"`
	Avatar     *Image             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	LastActive time.Time          `json:"lastActive" bson:"lastActive"`
	Settings   ProfileSettings    `json:"settings" bson:"settings"`
}

// NewDeviceProfile arma un perfil con los defaults documentados
func NewDeviceProfile(deviceID string) *DeviceProfile {
	now := time.Now()
	return &DeviceProfile{
		DeviceID:   deviceID,
		Name:       defaultProfileName,
		Email:      "",
		Phone:      "",
		Address:    "",
		CreatedAt:  now,
		LastActive: now,
		Settings: ProfileSettings{
			Notifications: true,
			DarkMode:      false,
		},
	}
}

// ValidateProfileName limita el nombre visible del perfil
func ValidateProfileName(name string) error {
	if utf8.RuneCountInString(name) > maxProfileNameLength {
		return apperr.Validation("name", "name must be at most 50 characters")
	}
	return nil
}
