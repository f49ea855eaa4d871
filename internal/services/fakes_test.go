package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
	"riftory-api/internal/repository"
)

// Fakes con campos función: cada test define sólo el comportamiento
// que necesita y el resto cae en defaults razonables.

type fakeProductRepo struct {
	createFn      func(ctx context.Context, product *models.Product) error
	findByIDFn    func(ctx context.Context, id string) (*models.Product, error)
	findFn        func(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	findByIDsFn   func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	updateFn      func(ctx context.Context, id string, set bson.M) (*models.Product, error)
	deleteFn      func(ctx context.Context, id string) error
	countFn       func(ctx context.Context, deviceID string) (int64, error)
	createCalls   int
	updateCalls   int
	deleteCalls   int
	lastUpdateSet bson.M
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	f.createCalls++
	if f.createFn != nil {
		return f.createFn(ctx, product)
	}
	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsActive = true
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, apperr.NotFound("Product")
}

func (f *fakeProductRepo) Find(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	if f.findFn != nil {
		return f.findFn(ctx, filter)
	}
	return []models.Product{}, nil
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	if f.findByIDsFn != nil {
		return f.findByIDsFn(ctx, ids)
	}
	return map[primitive.ObjectID]models.Product{}, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	f.updateCalls++
	f.lastUpdateSet = set
	if f.updateFn != nil {
		return f.updateFn(ctx, id, set)
	}
	return &models.Product{}, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeProductRepo) CountActiveByDevice(ctx context.Context, deviceID string) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, deviceID)
	}
	return 0, nil
}

type fakeFavoriteRepo struct {
	createFn    func(ctx context.Context, favorite *models.Favorite) error
	findOneFn   func(ctx context.Context, deviceID string, productID primitive.ObjectID) (*models.Favorite, error)
	findFn      func(ctx context.Context, deviceID string) ([]models.Favorite, error)
	deleteFn    func(ctx context.Context, deviceID string, productID primitive.ObjectID) error
	countFn     func(ctx context.Context, deviceID string) (int64, error)
	createCalls int
}

func (f *fakeFavoriteRepo) Create(ctx context.Context, favorite *models.Favorite) error {
	f.createCalls++
	if f.createFn != nil {
		return f.createFn(ctx, favorite)
	}
	favorite.ID = primitive.NewObjectID()
	favorite.SavedAt = time.Now()
	return nil
}

func (f *fakeFavoriteRepo) FindOne(ctx context.Context, deviceID string, productID primitive.ObjectID) (*models.Favorite, error) {
	if f.findOneFn != nil {
		return f.findOneFn(ctx, deviceID, productID)
	}
	return nil, apperr.NotFound("Favorite")
}

func (f *fakeFavoriteRepo) FindByDevice(ctx context.Context, deviceID string) ([]models.Favorite, error) {
	if f.findFn != nil {
		return f.findFn(ctx, deviceID)
	}
	return []models.Favorite{}, nil
}

func (f *fakeFavoriteRepo) Delete(ctx context.Context, deviceID string, productID primitive.ObjectID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, deviceID, productID)
	}
	return apperr.NotFound("Favorite")
}

func (f *fakeFavoriteRepo) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, deviceID)
	}
	return 0, nil
}

type fakeProfileRepo struct {
	findFn    func(ctx context.Context, deviceID string) (*models.DeviceProfile, error)
	insertFn  func(ctx context.Context, profile *models.DeviceProfile) error
	replaceFn func(ctx context.Context, profile *models.DeviceProfile) error
	touchFn   func(ctx context.Context, deviceID string, at time.Time) error

	inserted *models.DeviceProfile
	replaced *models.DeviceProfile
	touched  int
}

func (f *fakeProfileRepo) FindByDevice(ctx context.Context, deviceID string) (*models.DeviceProfile, error) {
	if f.findFn != nil {
		return f.findFn(ctx, deviceID)
	}
	return nil, apperr.NotFound("Profile")
}

func (f *fakeProfileRepo) Insert(ctx context.Context, profile *models.DeviceProfile) error {
	f.inserted = profile
	if f.insertFn != nil {
		return f.insertFn(ctx, profile)
	}
	profile.ID = primitive.NewObjectID()
	return nil
}

func (f *fakeProfileRepo) Replace(ctx context.Context, profile *models.DeviceProfile) error {
	f.replaced = profile
	if f.replaceFn != nil {
		return f.replaceFn(ctx, profile)
	}
	return nil
}

func (f *fakeProfileRepo) TouchLastActive(ctx context.Context, deviceID string, at time.Time) error {
	f.touched++
	if f.touchFn != nil {
		return f.touchFn(ctx, deviceID, at)
	}
	return nil
}

// fakeMedia registra el orden de las llamadas para verificar la
// secuencia borrar-viejas-antes-de-subir-nuevas
type fakeMedia struct {
	uploadFn func(ctx context.Context, image, folder string) (models.Image, error)

	calls        []string
	uploads      []string
	deletedIDs   []string
	batchDeleted chan []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{batchDeleted: make(chan []string, 4)}
}

func (f *fakeMedia) Upload(ctx context.Context, image, folder string) (models.Image, error) {
	f.calls = append(f.calls, "upload")
	f.uploads = append(f.uploads, image)
	if f.uploadFn != nil {
		return f.uploadFn(ctx, image, folder)
	}
	return models.Image{URL: "https://cdn.example.com/" + image, PublicID: "pid-" + image}, nil
}

func (f *fakeMedia) UploadBatch(ctx context.Context, images []string, folder string) ([]models.Image, error) {
	f.calls = append(f.calls, "uploadBatch")
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		uploaded, err := f.Upload(ctx, img, folder)
		if err != nil {
			return nil, err
		}
		out = append(out, uploaded)
	}
	return out, nil
}

func (f *fakeMedia) Delete(ctx context.Context, publicID string) {
	f.calls = append(f.calls, "delete")
	f.deletedIDs = append(f.deletedIDs, publicID)
}

func (f *fakeMedia) DeleteBatch(ctx context.Context, publicIDs []string) {
	f.calls = append(f.calls, "deleteBatch")
	f.deletedIDs = append(f.deletedIDs, publicIDs...)
	f.batchDeleted <- publicIDs
}
