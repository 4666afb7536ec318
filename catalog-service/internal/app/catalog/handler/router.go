package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin
// Каждая операция имеет ровно один канонический обработчик;
// /api/v2/productos и /api/v3/productos - алиасы тех же обработчиков,
// сохранённые для совместимости со старыми клиентами
func SetupRoutes(catalogHandler *CatalogHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, base := range []string{"/api/productos", "/api/v2/productos"} {
		productos := router.Group(base)
		{
			productos.GET("", catalogHandler.GetAllProducts)                 // Список всех продуктов
			productos.GET("/:id", catalogHandler.GetProduct)                 // Продукт по ID
			productos.POST("", catalogHandler.CreateProduct)                 // Создать продукт из JSON
			productos.PUT("/:id", catalogHandler.UpdateProduct)              // Обновить продукт
			productos.DELETE("/:id", catalogHandler.DeleteProduct)           // Удалить продукт
			productos.POST("/upload/:id", catalogHandler.UploadPhoto)        // Привязать файл к продукту
			productos.POST("/crear", catalogHandler.CreateProductWithPhoto)  // Создать продукт с файлом (multipart)
		}
	}
	router.GET("/api/v3/productos", catalogHandler.GetAllProducts)

	categorias := router.Group("/api/categorias")
	{
		categorias.GET("", catalogHandler.GetAllCategories)
		categorias.GET("/:id", catalogHandler.GetCategory)
		categorias.POST("", catalogHandler.CreateCategory)
	}

	return router
}
