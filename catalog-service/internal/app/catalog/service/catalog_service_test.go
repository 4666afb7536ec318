package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catalogo/catalog-service/internal/app/catalog/entity"
	"catalogo/catalog-service/internal/app/catalog/repository"
	"catalogo/catalog-service/internal/app/catalog/repository/mocks"
	"catalogo/catalog-service/internal/app/catalog/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testDeps struct {
	productRepo  *mocks.MockProductRepository
	categoryRepo *mocks.MockCategoryRepository
	photos       *storage.PhotoStore
	cache        *mocks.MockProductCache
	kafka        *mocks.MockMessagePublisher
}

func newTestService(t *testing.T) (*CatalogService, *testDeps) {
	deps := &testDeps{
		productRepo:  new(mocks.MockProductRepository),
		categoryRepo: new(mocks.MockCategoryRepository),
		photos:       storage.NewPhotoStore(t.TempDir()),
		cache:        new(mocks.MockProductCache),
		kafka:        &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	svc := NewCatalogService(deps.productRepo, deps.categoryRepo, deps.photos, deps.cache, deps.kafka)
	return svc, deps
}

func expectMutationSideEffects(deps *testDeps) {
	deps.cache.On("DeleteProducts", mock.Anything).Return(nil)
	deps.kafka.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestCreateProduct_DefaultsCreateAt(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	deps.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Product).ID = primitive.NewObjectID()
	})

	before := time.Now()
	product, err := svc.CreateProduct(context.Background(), &entity.CreateProductRequest{Nombre: "Teclado", Precio: 29.9})

	assert.NoError(t, err)
	assert.False(t, product.CreateAt.IsZero())
	assert.False(t, product.CreateAt.Before(before))
	assert.False(t, product.ID.IsZero())
}

func TestCreateProduct_KeepsProvidedCreateAt(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	createAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	product, err := svc.CreateProduct(context.Background(), &entity.CreateProductRequest{
		Nombre:   "Monitor",
		Precio:   199.0,
		CreateAt: &createAt,
	})

	assert.NoError(t, err)
	assert.Equal(t, createAt, product.CreateAt)
}

func TestCreateProduct_ResolvesCategoriaByNombre(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	categoryID := primitive.NewObjectID()
	deps.categoryRepo.On("GetByNombre", mock.Anything, "Electronica").Return(&entity.Category{ID: categoryID, Nombre: "Electronica"}, nil)
	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	product, err := svc.CreateProduct(context.Background(), &entity.CreateProductRequest{
		Nombre:    "Mouse",
		Precio:    15.0,
		Categoria: &entity.Category{Nombre: "Electronica"},
	})

	assert.NoError(t, err)
	assert.Equal(t, categoryID, product.Categoria.ID)
}

func TestCreateProduct_UnknownCategoriaIgnored(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	deps.categoryRepo.On("GetByNombre", mock.Anything, "Inexistente").Return(nil, repository.ErrCategoryNotFound)
	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	product, err := svc.CreateProduct(context.Background(), &entity.CreateProductRequest{
		Nombre:    "Mouse",
		Precio:    15.0,
		Categoria: &entity.Category{Nombre: "Inexistente"},
	})

	assert.NoError(t, err)
	assert.True(t, product.Categoria.ID.IsZero())
	assert.Equal(t, "Inexistente", product.Categoria.Nombre)
}

func TestCreateProduct_KafkaErrorIgnored(t *testing.T) {
	svc, deps := newTestService(t)

	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.cache.On("DeleteProducts", mock.Anything).Return(nil)
	deps.kafka.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	product, err := svc.CreateProduct(context.Background(), &entity.CreateProductRequest{Nombre: "Teclado", Precio: 29.9})

	assert.NoError(t, err)
	assert.NotNil(t, product)
}

func TestCreateProductWithPhoto_Success(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Product).ID = primitive.NewObjectID()
	})

	product, err := svc.CreateProductWithPhoto(context.Background(),
		&entity.CreateProductRequest{Nombre: "Camara", Precio: 120.0},
		"mi foto.jpg", strings.NewReader("imagen"))

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(product.Foto, "-mifoto.jpg"))

	_, statErr := os.Stat(filepath.Join(deps.photos.Dir(), product.Foto))
	assert.NoError(t, statErr)
}

func TestCreateProductWithPhoto_CompensatesOnCreateError(t *testing.T) {
	svc, deps := newTestService(t)

	deps.productRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))

	product, err := svc.CreateProductWithPhoto(context.Background(),
		&entity.CreateProductRequest{Nombre: "Camara", Precio: 120.0},
		"foto.jpg", strings.NewReader("imagen"))

	assert.Error(t, err)
	assert.Nil(t, product)

	// Записанный файл должен быть удалён после отказа сохранения
	files, listErr := deps.photos.ListFiles()
	assert.NoError(t, listErr)
	assert.Empty(t, files)
}

func TestAttachPhoto_ProductNotFound(t *testing.T) {
	svc, deps := newTestService(t)

	deps.productRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrProductNotFound)

	product, err := svc.AttachPhoto(context.Background(), "missing", "foto.jpg", strings.NewReader("imagen"))

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestAttachPhoto_ReplacesOldPhoto(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	_, err := deps.photos.Save("old.jpg", strings.NewReader("vieja"))
	assert.NoError(t, err)

	existing := &entity.Product{ID: primitive.NewObjectID(), Nombre: "Camara", Precio: 120.0, Foto: "old.jpg"}
	deps.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	deps.productRepo.On("Replace", mock.Anything, mock.Anything).Return(nil)

	product, err := svc.AttachPhoto(context.Background(), existing.ID.Hex(), "nueva.jpg", strings.NewReader("nueva"))

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(product.Foto, "-nueva.jpg"))

	_, statErr := os.Stat(filepath.Join(deps.photos.Dir(), "old.jpg"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(deps.photos.Dir(), product.Foto))
	assert.NoError(t, statErr)
}

func TestAttachPhoto_CompensatesOnReplaceError(t *testing.T) {
	svc, deps := newTestService(t)

	existing := &entity.Product{ID: primitive.NewObjectID(), Nombre: "Camara", Precio: 120.0}
	deps.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	deps.productRepo.On("Replace", mock.Anything, mock.Anything).Return(errors.New("db error"))

	product, err := svc.AttachPhoto(context.Background(), existing.ID.Hex(), "foto.jpg", strings.NewReader("imagen"))

	assert.Error(t, err)
	assert.Nil(t, product)

	files, listErr := deps.photos.ListFiles()
	assert.NoError(t, listErr)
	assert.Empty(t, files)
}

func TestUpdateProduct_PreservesIDCreateAtFoto(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	createAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	existing := &entity.Product{
		ID:       primitive.NewObjectID(),
		Nombre:   "Viejo",
		Precio:   10.0,
		CreateAt: createAt,
		Foto:     "foto.jpg",
	}
	deps.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	deps.productRepo.On("Replace", mock.Anything, mock.Anything).Return(nil)

	product, err := svc.UpdateProduct(context.Background(), existing.ID.Hex(), &entity.UpdateProductRequest{
		Nombre: "Nuevo",
		Precio: 20.0,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Nuevo", product.Nombre)
	assert.Equal(t, 20.0, product.Precio)
	assert.Equal(t, existing.ID, product.ID)
	assert.Equal(t, createAt, product.CreateAt)
	assert.Equal(t, "foto.jpg", product.Foto)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, deps := newTestService(t)

	deps.productRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrProductNotFound)

	product, err := svc.UpdateProduct(context.Background(), "missing", &entity.UpdateProductRequest{Nombre: "X"})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestDeleteProduct_RemovesPhoto(t *testing.T) {
	svc, deps := newTestService(t)
	expectMutationSideEffects(deps)

	_, err := deps.photos.Save("foto.jpg", strings.NewReader("imagen"))
	assert.NoError(t, err)

	existing := &entity.Product{ID: primitive.NewObjectID(), Nombre: "Camara", Foto: "foto.jpg"}
	deps.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	deps.productRepo.On("Delete", mock.Anything, existing.ID.Hex()).Return(nil)

	err = svc.DeleteProduct(context.Background(), existing.ID.Hex())

	assert.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(deps.photos.Dir(), "foto.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc, deps := newTestService(t)

	deps.productRepo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrProductNotFound)

	err := svc.DeleteProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListProducts_CacheHit(t *testing.T) {
	svc, deps := newTestService(t)

	cached := []entity.Product{{ID: primitive.NewObjectID(), Nombre: "Teclado", Precio: 29.9}}
	deps.cache.On("GetProducts", mock.Anything).Return(cached, nil)

	products, err := svc.ListProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, products)
	deps.productRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestListProducts_CacheMiss(t *testing.T) {
	svc, deps := newTestService(t)

	stored := []entity.Product{{ID: primitive.NewObjectID(), Nombre: "Monitor", Precio: 199.0}}
	deps.cache.On("GetProducts", mock.Anything).Return(nil, nil)
	deps.productRepo.On("GetAll", mock.Anything).Return(stored, nil)
	deps.cache.On("SetProducts", mock.Anything, stored, mock.Anything).Return(nil)

	products, err := svc.ListProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, stored, products)
	deps.cache.AssertCalled(t, "SetProducts", mock.Anything, stored, mock.Anything)
}

func TestListProducts_CacheErrorFallsThrough(t *testing.T) {
	svc, deps := newTestService(t)

	stored := []entity.Product{{ID: primitive.NewObjectID(), Nombre: "Monitor", Precio: 199.0}}
	deps.cache.On("GetProducts", mock.Anything).Return(nil, errors.New("redis down"))
	deps.productRepo.On("GetAll", mock.Anything).Return(stored, nil)
	deps.cache.On("SetProducts", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	products, err := svc.ListProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, stored, products)
}
