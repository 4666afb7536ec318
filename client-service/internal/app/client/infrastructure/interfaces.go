package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"catalogo/client-service/internal/app/client/entity"
)

// CatalogServiceClient интерфейс клиента Catalog Service
// Используется для dependency injection и упрощения тестирования
type CatalogServiceClient interface {
	FindAll(ctx context.Context) ([]entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Save(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, id string, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, id string, filename string, file io.Reader) (*entity.Product, error)
}

// StatusError ошибка с HTTP статусом ответа Catalog Service
// Тело ответа сохраняется для трансляции ошибок клиенту
type StatusError struct {
	StatusCode int
	Body       []byte
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s from %s %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
}
