package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"riftory-api/internal/apperr"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

// Categorías normales y del Upside Down: universos disjuntos,
// un listado siempre pide exactamente una de las dos particiones.
var (
	NormalCategories = []string{
		"Electronics", "Fashion", "Home & Garden", "Sports",
		"Books", "Art & Crafts", "Vintage", "Other",
	}
	UpsideDownCategories = []string{
		"Forbidden Tech", "Dark Fashion", "Cursed Objects", "Occult",
		"Experiments", "Contraband", "Unknown Origin",
	}
)

// Image es una imagen subida al host remoto; PublicID permite borrarla después
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// Seller es el snapshot desnormalizado del vendedor dentro del producto
type Seller struct {
	ID            string  `json:"id" bson:"id"`
	Name          string  `json:"name" bson:"name"`
	Rating        float64 `json:"rating" bson:"rating"`
	TotalSales    int     `json:"totalSales" bson:"totalSales"`
	ContactNumber string  `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
	Address       string  `json:"address,omitempty" bson:"address,omitempty"`
	Email         string  `json:"email,omitempty" bson:"email,omitempty"`
	Type          string  `json:"type" bson:"type"`
	UpiID         string  `json:"upiId,omitempty" bson:"upiId,omitempty"`
	QrImageURL    string  `json:"qrImageUrl,omitempty" bson:"qrImageUrl,omitempty"`
}

// Product representa una publicación del marketplace
type Product struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Price        float64            `json:"price" bson:"price"`
	Description  string             `json:"description" bson:"description"`
	Category     string             `json:"category" bson:"category"`
	Images       []Image            `json:"images" bson:"images"`
	ImageURL     string             `json:"imageUrl" bson:"imageUrl"`
	Seller       Seller             `json:"seller" bson:"seller"`
	DeviceID     string             `json:"deviceId" bson:"deviceId"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	IsUpsideDown bool               `json:"isUpsideDown" bson:"isUpsideDown"`
}

// OwnedBy es el único predicado de propiedad: comparación simple de strings.
// Una futura capa de autenticación reemplaza esto sin tocar la orquestación.
func (p *Product) OwnedBy(deviceID string) bool {
	return p.DeviceID == deviceID
}

// PublicIDs junta los publicId no vacíos de las imágenes del producto
func (p *Product) PublicIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	return ids
}

// MarshalJSON agrega el campo virtual formattedPrice a la respuesta
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		FormattedPrice string `json:"formattedPrice"`
	}{
		alias:          alias(p),
		FormattedPrice: "₹" + FormatINR(p.Price),
	})
}

// FormatINR formatea un precio con agrupación india de dígitos (en-IN):
// 1234567.5 -> "12,34,567.5"
func FormatINR(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	// Últimos 3 dígitos, luego grupos de 2
	head := intPart[:len(intPart)-3]
	tail := intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + fracPart
}

// IsValidCategory verifica pertenencia al enum cerrado (ambas particiones)
func IsValidCategory(category string) bool {
	for _, c := range NormalCategories {
		if c == category {
			return true
		}
	}
	for _, c := range UpsideDownCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateProduct aplica los límites declarativos antes de cualquier
// efecto secundario (subida de imágenes o escritura en la base)
func ValidateProduct(p *Product) error {
	if p.Title == "" {
		return apperr.Validation("title", "title is required")
	}
	// Los límites cuentan caracteres, no bytes
	if utf8.RuneCountInString(p.Title) > maxTitleLength {
		return apperr.Validation("title", "title must be at most 100 characters")
	}
	if p.Price < 0 {
		return apperr.Validation("price", "price cannot be negative")
	}
	if p.Description == "" {
		return apperr.Validation("description", "description is required")
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLength {
		return apperr.Validation("description", "description must be at most 500 characters")
	}
	if p.Category == "" {
		return apperr.Validation("category", "category is required")
	}
	if !IsValidCategory(p.Category) {
		return apperr.Validation("category", "unknown category: "+p.Category)
	}
	if p.DeviceID == "" {
		return apperr.Validation("deviceId", "deviceId is required")
	}
	return nil
}

// DefaultSeller es el snapshot aplicado cuando el cliente no manda vendedor
func DefaultSeller(deviceID string) Seller {
	return Seller{
		ID:   deviceID,
		Name: "Riftory Seller",
		Type: "artisan",
	}
}
