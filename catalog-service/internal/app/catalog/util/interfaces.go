package util

import (
	"context"
	"time"

	"catalogo/catalog-service/internal/app/catalog/entity"
)

// ProductCache интерфейс для работы с Redis кешем списка продуктов
// Используется для dependency injection и упрощения тестирования
type ProductCache interface {
	SetProducts(ctx context.Context, products []entity.Product, ttl time.Duration) error
	GetProducts(ctx context.Context) ([]entity.Product, error)
	DeleteProducts(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
