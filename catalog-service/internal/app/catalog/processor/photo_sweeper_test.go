package processor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catalogo/catalog-service/internal/app/catalog/repository/mocks"
	"catalogo/catalog-service/internal/app/catalog/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func writePhoto(t *testing.T, store *storage.PhotoStore, name string, age time.Duration) {
	_, err := store.Save(name, strings.NewReader("imagen"))
	assert.NoError(t, err)

	if age > 0 {
		old := time.Now().Add(-age)
		assert.NoError(t, os.Chtimes(filepath.Join(store.Dir(), name), old, old))
	}
}

func TestSweep_RemovesOldOrphansOnly(t *testing.T) {
	store := storage.NewPhotoStore(t.TempDir())
	productRepo := new(mocks.MockProductRepository)
	sweeper := NewPhotoSweeper(productRepo, store, time.Hour)

	writePhoto(t, store, "referenced.jpg", 2*time.Hour)
	writePhoto(t, store, "orphan-old.jpg", 2*time.Hour)
	writePhoto(t, store, "orphan-fresh.jpg", 0)

	productRepo.On("DistinctFotos", mock.Anything).Return([]string{"referenced.jpg"}, nil)

	removed, err := sweeper.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := store.ListFiles()
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "referenced.jpg")
	assert.Contains(t, names, "orphan-fresh.jpg")
}

func TestSweep_EmptyUploadsDir(t *testing.T) {
	store := storage.NewPhotoStore(filepath.Join(t.TempDir(), "missing"))
	productRepo := new(mocks.MockProductRepository)
	sweeper := NewPhotoSweeper(productRepo, store, time.Hour)

	productRepo.On("DistinctFotos", mock.Anything).Return([]string{}, nil)

	removed, err := sweeper.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSweep_RepositoryError(t *testing.T) {
	store := storage.NewPhotoStore(t.TempDir())
	productRepo := new(mocks.MockProductRepository)
	sweeper := NewPhotoSweeper(productRepo, store, time.Hour)

	writePhoto(t, store, "orphan-old.jpg", 2*time.Hour)
	productRepo.On("DistinctFotos", mock.Anything).Return(nil, assert.AnError)

	removed, err := sweeper.Sweep(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, removed)

	// Файлы не трогаем, если список ссылок получить не удалось
	files, listErr := store.ListFiles()
	assert.NoError(t, listErr)
	assert.Len(t, files, 1)
}
