package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"riftory-api/internal/apperr"
	"riftory-api/internal/media"
	"riftory-api/internal/models"
	"riftory-api/internal/repository"
)

// ProfileService maneja el perfil por dispositivo con semántica
// read-or-create: leer un deviceId desconocido lo crea con defaults.
type ProfileService struct {
	profiles  repository.ProfileRepository
	products  repository.ProductRepository
	favorites repository.FavoriteRepository
	media     media.Store
	folder    string
}

func NewProfileService(
	profiles repository.ProfileRepository,
	products repository.ProductRepository,
	favorites repository.FavoriteRepository,
	store media.Store,
	folder string,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		products:  products,
		favorites: favorites,
		media:     store,
		folder:    folder + "/avatars",
	}
}

// UpdateProfileInput son los campos reconocidos del update; cualquier
// otro campo del body se ignora. Punteros nil = campo no enviado.
type UpdateProfileInput struct {
	Name     *string        `json:"name"`
	Email    *string        `json:"email"`
	Phone    *string        `json:"phone"`
	Address  *string        `json:"address"`
	Avatar   *string        `json:"avatar"`
	Settings *SettingsPatch `json:"settings"`
}

// SettingsPatch se mezcla campo a campo sobre los settings existentes
type SettingsPatch struct {
	Notifications *bool `json:"notifications"`
	DarkMode      *bool `json:"darkMode"`
}

// ProfileStats son los contadores del dispositivo
type ProfileStats struct {
	ListingsCount  int64 `json:"listingsCount"`
	FavoritesCount int64 `json:"favoritesCount"`
}

// GetOrCreate devuelve el perfil del dispositivo, creándolo con
// defaults si no existe. Refresca lastActive incluso en lecturas puras.
func (s *ProfileService) GetOrCreate(ctx context.Context, deviceID string) (*models.DeviceProfile, error) {
	profile, err := s.profiles.FindByDevice(ctx, deviceID)
	if err == nil {
		now := time.Now()
		if err := s.profiles.TouchLastActive(ctx, deviceID, now); err != nil {
			return nil, err
		}
		profile.LastActive = now
		return profile, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	profile = models.NewDeviceProfile(deviceID)
	if err := s.profiles.Insert(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Otro request creó el perfil primero; usamos el suyo
			return s.profiles.FindByDevice(ctx, deviceID)
		}
		return nil, err
	}

	zap.S().Infow("[Profile] Created new profile", "deviceId", deviceID)
	return profile, nil
}

// Update crea el perfil si hace falta y aplica sólo los campos
// reconocidos. Un avatar embebido (prefijo data:) reemplaza al
// anterior: primero se borra el viejo (best-effort), después se sube.
func (s *ProfileService) Update(ctx context.Context, deviceID string, input UpdateProfileInput) (*models.DeviceProfile, error) {
	profile, err := s.GetOrCreate(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := models.ValidateProfileName(*input.Name); err != nil {
			return nil, err
		}
		profile.Name = *input.Name
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.Settings != nil {
		if input.Settings.Notifications != nil {
			profile.Settings.Notifications = *input.Settings.Notifications
		}
		if input.Settings.DarkMode != nil {
			profile.Settings.DarkMode = *input.Settings.DarkMode
		}
	}

	// Un payload embebido se detecta por el prefijo data:, una URL ya
	// subida se deja como está
	if input.Avatar != nil && strings.HasPrefix(*input.Avatar, "data:") {
		if profile.Avatar != nil && profile.Avatar.PublicID != "" {
			s.media.Delete(ctx, profile.Avatar.PublicID)
		}

		uploaded, err := s.media.Upload(ctx, *input.Avatar, s.folder)
		if err != nil {
			return nil, err
		}
		profile.Avatar = &uploaded
	}

	profile.LastActive = time.Now()
	if err := s.profiles.Replace(ctx, profile); err != nil {
		return nil, err
	}

	zap.S().Infow("[Profile] Updated profile", "deviceId", deviceID)
	return profile, nil
}

// Stats computa los contadores en paralelo (lectura pura)
func (s *ProfileService) Stats(ctx context.Context, deviceID string) (*ProfileStats, error) {
	type count struct {
		n   int64
		err error
	}

	listingsCh := make(chan count, 1)
	favoritesCh := make(chan count, 1)

	go func() {
		n, err := s.products.CountActiveByDevice(ctx, deviceID)
		listingsCh <- count{n: n, err: err}
	}()
	go func() {
		n, err := s.favorites.CountByDevice(ctx, deviceID)
		favoritesCh <- count{n: n, err: err}
	}()

	listings := <-listingsCh
	favorites := <-favoritesCh
	if listings.err != nil {
		return nil, listings.err
	}
	if favorites.err != nil {
		return nil, favorites.err
	}

	return &ProfileStats{
		ListingsCount:  listings.n,
		FavoritesCount: favorites.n,
	}, nil
}
