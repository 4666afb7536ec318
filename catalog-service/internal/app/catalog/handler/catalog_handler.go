package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalogo/catalog-service/internal/app/catalog/entity"
	"catalogo/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogServiceInterface interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	CreateProductWithPhoto(ctx context.Context, req *entity.CreateProductRequest, filename string, file io.Reader) (*entity.Product, error)
	AttachPhoto(ctx context.Context, id string, filename string, file io.Reader) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]entity.Category, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
}

// CatalogHandler обрабатывает HTTP запросы каталога
type CatalogHandler struct {
	catalogService CatalogServiceInterface
	validator      *validator.Validate
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// === PRODUCTS HANDLERS ===

// GetAllProducts обрабатывает GET /api/productos
func (h *CatalogHandler) GetAllProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list products"})
		return
	}

	if products == nil {
		products = []entity.Product{}
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct обрабатывает GET /api/productos/:id
// Отсутствующий продукт - пустой 404
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /api/productos
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, validationErrorResponse(err))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// CreateProductWithPhoto обрабатывает POST /api/productos/crear
// Поля продукта и файл приходят одним multipart телом
func (h *CatalogHandler) CreateProductWithPhoto(c *gin.Context) {
	precio, err := strconv.ParseFloat(c.PostForm("precio"), 64)
	if err != nil && c.PostForm("precio") != "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid precio value"})
		return
	}

	req := entity.CreateProductRequest{
		Nombre: c.PostForm("nombre"),
		Precio: precio,
	}

	if nombre := c.PostForm("categoria.nombre"); nombre != "" {
		categoria := &entity.Category{Nombre: nombre}
		if idStr := c.PostForm("categoria.id"); idStr != "" {
			oid, err := primitive.ObjectIDFromHex(idStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid categoria.id value"})
				return
			}
			categoria.ID = oid
		}
		req.Categoria = categoria
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, validationErrorResponse(err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "File part is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read file part"})
		return
	}
	defer file.Close()

	product, err := h.catalogService.CreateProductWithPhoto(c.Request.Context(), &req, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UploadPhoto обрабатывает POST /api/productos/upload/:id
// Операция создает новое состояние ресурса, поэтому отвечает 201
func (h *CatalogHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "File part is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read file part"})
		return
	}
	defer file.Close()

	product, err := h.catalogService.AttachPhoto(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to upload photo"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct обрабатывает PUT /api/productos/:id
// Исходный API отвечал на обновление 201, сохраняем это поведение
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// DeleteProduct обрабатывает DELETE /api/productos/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// === CATEGORIES HANDLERS ===

// GetAllCategories обрабатывает GET /api/categorias
func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list categories"})
		return
	}

	if categories == nil {
		categories = []entity.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory обрабатывает GET /api/categorias/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory обрабатывает POST /api/categorias
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, validationErrorResponse(err))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// validationErrorResponse собирает тело 400 с сообщением на каждое поле
// Формат сообщений: "El campo <campo> <нарушение>"
func validationErrorResponse(err error) entity.ValidationErrorResponse {
	var messages []string

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			messages = append(messages, "El campo "+strings.ToLower(fieldError.Field())+" "+violationMessage(fieldError.Tag()))
		}
	} else {
		messages = append(messages, "Validation failed")
	}

	return entity.ValidationErrorResponse{
		Errors:    messages,
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
	}
}

func violationMessage(tag string) string {
	switch tag {
	case "required":
		return "no puede estar vacío"
	case "gt":
		return "debe ser mayor que 0"
	default:
		return "no es válido"
	}
}
