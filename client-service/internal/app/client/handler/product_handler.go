package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalogo/client-service/internal/app/client/entity"
	"catalogo/client-service/internal/app/client/infrastructure"
	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ProductHandler обрабатывает HTTP запросы Client Service
// Все операции проксируются в Catalog Service, ошибки транслируются
type ProductHandler struct {
	catalog infrastructure.CatalogServiceClient
}

// NewProductHandler создает новый обработчик
func NewProductHandler(catalog infrastructure.CatalogServiceClient) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts обрабатывает GET /api/client
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.FindAll(c.Request.Context())
	if err != nil {
		h.translateError(c, err, false)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct обрабатывает GET /api/client/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.translateError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /api/client
// Ошибки валидации Catalog Service (400) проксируются как есть
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product entity.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	created, err := h.catalog.Save(c.Request.Context(), &product)
	if err != nil {
		h.translateError(c, err, true)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateProduct обрабатывает PUT /api/client/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product entity.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	updated, err := h.catalog.Update(c.Request.Context(), c.Param("id"), &product)
	if err != nil {
		h.translateError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, updated)
}

// DeleteProduct обрабатывает DELETE /api/client/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.translateError(c, err, false)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto обрабатывает POST /api/client/upload/:id
func (h *ProductHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "message": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file", "message": err.Error()})
		return
	}
	defer file.Close()

	product, err := h.catalog.Upload(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		h.translateError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// translateError переводит ошибки Catalog Service в ответы клиенту
// 404 превращается в структурированное тело с сообщением,
// 400 при создании проксируется без изменений,
// остальные ошибки скрываются за 500
func (h *ProductHandler) translateError(c *gin.Context, err error, passBadRequest bool) {
	var statusErr *infrastructure.StatusError
	if errors.As(err, &statusErr) {
		metrics.ClientUpstreamErrors.WithLabelValues(strconv.Itoa(statusErr.StatusCode)).Inc()

		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			metrics.ClientErrorsTranslated.WithLabelValues("404").Inc()
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No existe el producto: " + statusErr.Error(),
				"timestamp": time.Now(),
				"status":    http.StatusNotFound,
			})
			return
		case statusErr.StatusCode == http.StatusBadRequest && passBadRequest:
			metrics.ClientErrorsTranslated.WithLabelValues("400").Inc()
			c.Data(http.StatusBadRequest, "application/json", statusErr.Body)
			return
		}
	}

	logger.Error().Err(err).Msg("Catalog Service request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
