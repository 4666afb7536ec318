package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"catalogo/client-service/internal/app/client/entity"
	"catalogo/client-service/internal/app/client/infrastructure"
)

// CatalogClient клиент для взаимодействия с Catalog Service
// Все операции Client Service проксируются через этот клиент
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient создает новый клиент для Catalog Service
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Таймаут для HTTP запросов
		},
	}
}

// FindAll получает список всех товаров
func (c *CatalogClient) FindAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/productos", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID получает товар по идентификатору
func (c *CatalogClient) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	url := fmt.Sprintf("%s/api/productos/%s", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Save создает новый товар
func (c *CatalogClient) Save(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	var created entity.Product
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/productos", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update обновляет существующий товар
func (c *CatalogClient) Update(ctx context.Context, id string, product *entity.Product) (*entity.Product, error) {
	var updated entity.Product
	url := fmt.Sprintf("%s/api/productos/%s", c.baseURL, id)
	if err := c.doJSON(ctx, http.MethodPut, url, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete удаляет товар по идентификатору
func (c *CatalogClient) Delete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/productos/%s", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, url, nil, nil)
}

// Upload отправляет фотографию товара через multipart/form-data
func (c *CatalogClient) Upload(ctx context.Context, id string, filename string, file io.Reader) (*entity.Product, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/api/productos/upload/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodPost, url); err != nil {
		return nil, err
	}

	var product entity.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &product, nil
}

// doJSON выполняет запрос с JSON телом и декодирует JSON ответ
// out == nil означает, что тело ответа не ожидается
func (c *CatalogClient) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, method, url); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatus превращает не-2xx ответ в StatusError с сохранением тела
func checkStatus(resp *http.Response, method, url string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	return &infrastructure.StatusError{
		StatusCode: resp.StatusCode,
		Body:       body,
		Method:     method,
		URL:        url,
	}
}
