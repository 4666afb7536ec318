package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"catalogo/catalog-service/internal/app/catalog/entity"
	"catalogo/catalog-service/internal/app/catalog/repository"
	"catalogo/catalog-service/internal/app/catalog/storage"
	"catalogo/catalog-service/internal/app/catalog/util"
	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	serviceName     = "catalog-service"
	productCacheTTL = 60 * time.Second
)

// CatalogService обрабатывает бизнес-логику каталога
// Координирует репозитории, файловое хранилище, кеш и Kafka
type CatalogService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	photos        *storage.PhotoStore
	cache         util.ProductCache
	kafkaProducer util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	photos *storage.PhotoStore,
	cache util.ProductCache,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		photos:        photos,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// ListProducts возвращает все продукты, список кешируется в Redis
// Проблемы с кешем не прерывают запрос: читаем из MongoDB
func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	cached, err := s.cache.GetProducts(ctx)
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		logger.Warn().Err(err).Msg("Failed to read product list from cache")
	}
	if cached != nil {
		metrics.RecordCacheHit(serviceName, "productos")
		return cached, nil
	}
	metrics.RecordCacheMiss(serviceName, "productos")

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if err := s.cache.SetProducts(ctx, products, productCacheTTL); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		logger.Warn().Err(err).Msg("Failed to cache product list")
	}

	return products, nil
}

// GetProduct получает продукт по ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// CreateProduct создает продукт из JSON тела
// createAt устанавливается в текущее время только если не передан
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	product := &entity.Product{
		Nombre:    req.Nombre,
		Precio:    req.Precio,
		Categoria: req.Categoria,
	}
	if req.CreateAt != nil {
		product.CreateAt = *req.CreateAt
	}
	if product.CreateAt.IsZero() {
		product.CreateAt = time.Now()
	}

	s.resolveCategoria(ctx, product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	s.invalidateProductCache(ctx)
	s.publishProductEvent(ctx, "PRODUCT_CREATED", product)

	return product, nil
}

// CreateProductWithPhoto создает продукт вместе с загруженным файлом
// Порядок строгий: сначала запись файла на диск, затем сохранение документа
// Ошибка записи на диск прерывает конвейер до персистентности;
// ошибка сохранения документа компенсируется удалением записанного файла
func (s *CatalogService) CreateProductWithPhoto(ctx context.Context, req *entity.CreateProductRequest, filename string, file io.Reader) (*entity.Product, error) {
	product := &entity.Product{
		Nombre:    req.Nombre,
		Precio:    req.Precio,
		Categoria: req.Categoria,
		CreateAt:  time.Now(),
		Foto:      storage.UniqueName(filename),
	}

	s.resolveCategoria(ctx, product)

	n, err := s.photos.Save(product.Foto, file)
	if err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if rmErr := s.photos.Remove(product.Foto); rmErr != nil {
			logger.Error().Err(rmErr).Str("foto", product.Foto).Msg("Failed to remove photo after save failure")
		}
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	metrics.PhotoUploads.WithLabelValues("success").Inc()
	metrics.PhotoUploadBytes.Add(float64(n))
	s.invalidateProductCache(ctx)
	s.publishProductEvent(ctx, "PRODUCT_CREATED", product)

	return product, nil
}

// AttachPhoto связывает загруженный файл с существующим продуктом
// Прежний файл удаляется после успешного сохранения документа,
// чтобы жизненный цикл файла совпадал с жизненным циклом продукта
func (s *CatalogService) AttachPhoto(ctx context.Context, id string, filename string, file io.Reader) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldFoto := product.Foto
	product.Foto = storage.UniqueName(filename)

	n, err := s.photos.Save(product.Foto, file)
	if err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.productRepo.Replace(ctx, product); err != nil {
		if rmErr := s.photos.Remove(product.Foto); rmErr != nil {
			logger.Error().Err(rmErr).Str("foto", product.Foto).Msg("Failed to remove photo after save failure")
		}
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	if oldFoto != "" {
		if rmErr := s.photos.Remove(oldFoto); rmErr != nil {
			logger.Warn().Err(rmErr).Str("foto", oldFoto).Msg("Failed to remove replaced photo")
		}
	}

	metrics.PhotoUploads.WithLabelValues("success").Inc()
	metrics.PhotoUploadBytes.Add(float64(n))
	s.invalidateProductCache(ctx)
	s.publishProductEvent(ctx, "PRODUCT_UPDATED", product)

	return product, nil
}

// UpdateProduct накладывает nombre, precio и categoria на существующий документ
// id, createAt и foto сохраняются без изменений
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.Nombre = req.Nombre
	product.Precio = req.Precio
	product.Categoria = req.Categoria

	if err := s.productRepo.Replace(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateProductCache(ctx)
	s.publishProductEvent(ctx, "PRODUCT_UPDATED", product)

	return product, nil
}

// DeleteProduct удаляет продукт и связанный с ним файл фото
// Файл удаляется best-effort после документа: каталог загрузок
// дочищает уборщик, если удаление не удалось
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.Foto != "" {
		if rmErr := s.photos.Remove(product.Foto); rmErr != nil {
			logger.Warn().Err(rmErr).Str("foto", product.Foto).Msg("Failed to remove photo of deleted product")
		}
	}

	metrics.ProductsDeleted.Inc()
	s.invalidateProductCache(ctx)
	s.publishProductEvent(ctx, "PRODUCT_DELETED", product)

	return nil
}

// ListCategories возвращает все категории
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// GetCategory получает категорию по ID
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// CreateCategory создает новую категорию
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{Nombre: req.Nombre}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// resolveCategoria дополняет категорию продукта её id по имени
// Категория встраивается денормализованной копией, поэтому
// отсутствие её в справочнике не считается ошибкой
func (s *CatalogService) resolveCategoria(ctx context.Context, product *entity.Product) {
	if product.Categoria == nil || !product.Categoria.ID.IsZero() || product.Categoria.Nombre == "" {
		return
	}

	category, err := s.categoryRepo.GetByNombre(ctx, product.Categoria.Nombre)
	if err != nil {
		if !errors.Is(err, repository.ErrCategoryNotFound) {
			logger.Warn().Err(err).Str("nombre", product.Categoria.Nombre).Msg("Failed to resolve categoria")
		}
		return
	}

	product.Categoria.ID = category.ID
}

// invalidateProductCache сбрасывает кеш списка после любой мутации
func (s *CatalogService) invalidateProductCache(ctx context.Context) {
	if err := s.cache.DeleteProducts(ctx); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		logger.Warn().Err(err).Msg("Failed to invalidate product cache")
	}
}

// publishProductEvent отправляет событие о продукте в Kafka
// Проблемы с Kafka не критичны: документ уже сохранён
func (s *CatalogService) publishProductEvent(ctx context.Context, eventType string, product *entity.Product) {
	event := entity.ProductEvent{
		EventType: eventType,
		ProductID: product.ID.Hex(),
		Nombre:    product.Nombre,
		Precio:    product.Precio,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal product event")
		return
	}

	timer := metrics.NewKafkaProduceTimer(serviceName, "product_events")
	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID, eventData); err != nil {
		timer.Error()
		logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to publish product event")
		return
	}
	timer.Success()
}
