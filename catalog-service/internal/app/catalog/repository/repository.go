package repository

import (
	"context"
	"errors"

	"catalogo/catalog-service/internal/app/catalog/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductRepository определяет методы для работы с продуктами в MongoDB
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Replace(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	DistinctFotos(ctx context.Context) ([]string, error)
}

// CategoryRepository определяет методы для работы с категориями в MongoDB
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	GetByNombre(ctx context.Context, nombre string) (*entity.Category, error)
}
