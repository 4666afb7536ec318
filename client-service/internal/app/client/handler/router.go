package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Client Service с использованием Gin
func SetupRoutes(productHandler *ProductHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("client-service"))

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
			"service": "client-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	client := router.Group("/api/client")
	{
		client.GET("", productHandler.ListProducts)           // Список всех продуктов
		client.GET("/:id", productHandler.GetProduct)         // Продукт по ID
		client.POST("", productHandler.CreateProduct)         // Создать продукт
		client.PUT("/:id", productHandler.UpdateProduct)      // Обновить продукт
		client.DELETE("/:id", productHandler.DeleteProduct)   // Удалить продукт
		client.POST("/upload/:id", productHandler.UploadPhoto) // Загрузить фото продукта
	}

	return router
}
