package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalogo/catalog-service/internal/app/catalog/entity"
	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "catalog-service"

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает новый репозиторий продуктов
// Автоматически создает индекс по nombre для поиска по имени
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection("productos")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "nombre", Value: 1},
		},
		Options: options.Index().SetName("nombre_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать, работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create index on nombre")
	}

	return &productRepository{
		collection: collection,
	}
}

// Create вставляет новый продукт, id назначает MongoDB
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, "productos")
	defer timer.ObserveDuration()

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return nil
}

// GetByID получает продукт по ID
// Невалидный hex трактуется как отсутствующий документ, чтобы
// запрос с произвольной строкой вместо id отвечал 404, а не 500
func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "productos")
	defer timer.ObserveDuration()

	var product entity.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// GetAll получает все продукты каталога
func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, "productos")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "createAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Replace сохраняет документ целиком по его _id
// Последняя запись выигрывает: optimistic locking не используется
func (r *productRepository) Replace(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpReplace, "productos")
	defer timer.ObserveDuration()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpReplace)
		return fmt.Errorf("failed to replace product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет продукт из MongoDB
func (r *productRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpDelete, "productos")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DistinctFotos возвращает имена всех файлов, на которые ссылаются продукты
// Используется уборщиком осиротевших фото
func (r *productRepository) DistinctFotos(ctx context.Context) ([]string, error) {
	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpDistinct, "productos")
	defer timer.ObserveDuration()

	values, err := r.collection.Distinct(ctx, "foto", bson.M{"foto": bson.M{"$ne": ""}})
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpDistinct)
		return nil, fmt.Errorf("failed to list referenced fotos: %w", err)
	}

	fotos := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			fotos = append(fotos, s)
		}
	}

	return fotos, nil
}
