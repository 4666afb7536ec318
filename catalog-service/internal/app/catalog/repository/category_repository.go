package repository

import (
	"context"
	"errors"
	"fmt"

	"catalogo/catalog-service/internal/app/catalog/entity"
	"catalogo/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type categoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{
		collection: db.Collection("categorias"),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, "categorias")
	defer timer.ObserveDuration()

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create category: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "categorias")
	defer timer.ObserveDuration()

	var category entity.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "categorias")
	defer timer.ObserveDuration()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

// GetByNombre находит категорию по имени
// nombre не уникально, возвращается первое совпадение
func (r *categoryRepository) GetByNombre(ctx context.Context, nombre string) (*entity.Category, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "categorias")
	defer timer.ObserveDuration()

	var category entity.Category
	err := r.collection.FindOne(ctx, bson.M{"nombre": nombre}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to get category by nombre: %w", err)
	}

	return &category, nil
}
