package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
)

func validProduct(deviceID string) *models.Product {
	return &models.Product{
		Title:       "Lamp",
		Price:       500,
		Description: "desc",
		Category:    "Electronics",
		DeviceID:    deviceID,
	}
}

func TestProductService_Create_NoImages(t *testing.T) {
	repo := &fakeProductRepo{}
	store := newFakeMedia()
	svc := NewProductService(repo, store, "riftory")

	created, err := svc.Create(context.Background(), validProduct("dev1"), nil)

	require.NoError(t, err)
	assert.Equal(t, "", created.ImageURL)
	assert.Len(t, created.Images, 0)
	assert.NotNil(t, created.Images, "images debe serializar como [], no null")
	assert.Empty(t, store.calls, "sin imágenes no se toca el host de medios")
}

func TestProductService_Create_ImageURLIsFirstImage(t *testing.T) {
	repo := &fakeProductRepo{}
	store := newFakeMedia()
	svc := NewProductService(repo, store, "riftory")

	created, err := svc.Create(context.Background(), validProduct("dev1"), []string{"img-a", "img-b"})

	require.NoError(t, err)
	require.Len(t, created.Images, 2)
	assert.Equal(t, created.Images[0].URL, created.ImageURL)
	assert.Equal(t, "https://cdn.example.com/img-a", created.ImageURL)
}

func TestProductService_Create_SellerDefaults(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := NewProductService(repo, newFakeMedia(), "riftory")

	created, err := svc.Create(context.Background(), validProduct("dev1"), nil)

	require.NoError(t, err)
	assert.Equal(t, "dev1", created.Seller.ID)
	assert.Equal(t, "Riftory Seller", created.Seller.Name)
	assert.Equal(t, "artisan", created.Seller.Type)
}

func TestProductService_Create_ValidationShortCircuits(t *testing.T) {
	repo := &fakeProductRepo{}
	store := newFakeMedia()
	svc := NewProductService(repo, store, "riftory")

	product := validProduct("dev1")
	product.Title = ""

	_, err := svc.Create(context.Background(), product, []string{"img-a"})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.calls, "la validación corta antes de cualquier side effect")
	assert.Zero(t, repo.createCalls)
}

func TestProductService_Create_UploadFailureMeansNoWrite(t *testing.T) {
	repo := &fakeProductRepo{}
	store := newFakeMedia()
	store.uploadFn = func(ctx context.Context, image, folder string) (models.Image, error) {
		return models.Image{}, apperr.MediaUpload(errors.New("upstream down"))
	}
	svc := NewProductService(repo, store, "riftory")

	_, err := svc.Create(context.Background(), validProduct("dev1"), []string{"img-a"})

	var me *apperr.MediaUploadError
	require.ErrorAs(t, err, &me)
	assert.Zero(t, repo.createCalls, "sin escritura parcial cuando falla la subida")
}

func TestProductService_Update_NotFound(t *testing.T) {
	svc := NewProductService(&fakeProductRepo{}, newFakeMedia(), "riftory")

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), "dev1", map[string]interface{}{}, nil)

	assert.True(t, apperr.IsNotFound(err))
}

func TestProductService_Update_ForbiddenForNonOwner(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	svc := NewProductService(repo, newFakeMedia(), "riftory")

	_, err := svc.Update(context.Background(), owned.ID.Hex(), "dev2", map[string]interface{}{"title": "hack"}, nil)

	var fb *apperr.ForbiddenError
	require.ErrorAs(t, err, &fb)
	assert.Zero(t, repo.updateCalls, "el documento queda sin modificar")
}

func TestProductService_Update_ReplacesImagesDeletingOldFirst(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	owned.Images = []models.Image{{URL: "old-url", PublicID: "old-pid"}}
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	store := newFakeMedia()
	svc := NewProductService(repo, store, "riftory")

	_, err := svc.Update(context.Background(), owned.ID.Hex(), "dev1",
		map[string]interface{}{"title": "Nueva lámpara"}, []string{"img-new"})

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(store.calls), 2)
	assert.Equal(t, "deleteBatch", store.calls[0], "primero se libera el set viejo")
	assert.Equal(t, "uploadBatch", store.calls[1])
	assert.Equal(t, []string{"old-pid"}, <-store.batchDeleted)

	require.NotNil(t, repo.lastUpdateSet)
	images, ok := repo.lastUpdateSet["images"].([]models.Image)
	require.True(t, ok)
	assert.Equal(t, "pid-img-new", images[0].PublicID)
	assert.Equal(t, "https://cdn.example.com/img-new", repo.lastUpdateSet["imageUrl"])
}

func TestProductService_Update_SanitizesProtectedFields(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	svc := NewProductService(repo, newFakeMedia(), "riftory")

	patch := map[string]interface{}{
		"title":     "ok",
		"_id":       "evil",
		"deviceId":  "dev2",
		"createdAt": "1999-01-01",
		"isActive":  false,
		"condition": "like new", // campo arbitrario: pasa tal cual
	}
	_, err := svc.Update(context.Background(), owned.ID.Hex(), "dev1", patch, nil)

	require.NoError(t, err)
	set := repo.lastUpdateSet
	assert.NotContains(t, set, "_id")
	assert.NotContains(t, set, "deviceId")
	assert.NotContains(t, set, "createdAt")
	assert.NotContains(t, set, "isActive")
	assert.Equal(t, "ok", set["title"])
	assert.Equal(t, "like new", set["condition"])
}

func TestProductService_Update_PatchValidation(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	svc := NewProductService(repo, newFakeMedia(), "riftory")

	cases := []map[string]interface{}{
		{"price": float64(-1)},
		{"category": "Nonsense"},
		{"title": ""},
	}
	for _, patch := range cases {
		_, err := svc.Update(context.Background(), owned.ID.Hex(), "dev1", patch, nil)
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve, "patch %v", patch)
	}
	assert.Zero(t, repo.updateCalls)

	// El límite del título cuenta caracteres, no bytes
	_, err := svc.Update(context.Background(), owned.ID.Hex(), "dev1",
		map[string]interface{}{"title": strings.Repeat("ñ", 100)}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestProductService_Delete_ForbiddenForNonOwner(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	svc := NewProductService(repo, newFakeMedia(), "riftory")

	err := svc.Delete(context.Background(), owned.ID.Hex(), "dev2")

	var fb *apperr.ForbiddenError
	require.ErrorAs(t, err, &fb)
	assert.Zero(t, repo.deleteCalls)
}

func TestProductService_Delete_PurgesImages(t *testing.T) {
	owned := validProduct("dev1")
	owned.ID = primitive.NewObjectID()
	owned.Images = []models.Image{{PublicID: "pid-1"}, {PublicID: "pid-2"}}
	repo := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return owned, nil
		},
	}
	store := newFakeMedia()
	svc := NewProductService(repo, store, "riftory")

	err := svc.Delete(context.Background(), owned.ID.Hex(), "dev1")

	require.NoError(t, err)
	assert.Equal(t, 1, repo.deleteCalls)

	// La purga es fire-and-forget: esperamos el fan-out
	select {
	case purged := <-store.batchDeleted:
		assert.ElementsMatch(t, []string{"pid-1", "pid-2"}, purged)
	case <-time.After(2 * time.Second):
		t.Fatal("la purga de imágenes nunca se disparó")
	}
}
