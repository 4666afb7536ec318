package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP метрики (общие для catalog-service и client-service)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// MongoDB метрики
// =============================================================================

// MongoOperationDuration - время выполнения операций с MongoDB
var MongoOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "mongo_operation_duration_seconds",
		Help:    "Duration of MongoDB operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// MongoErrors - счётчик ошибок MongoDB
var MongoErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mongo_errors_total",
		Help: "Total number of MongoDB errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis метрики (кеш списка продуктов)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka метрики (топик product_events)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Бизнес-метрики Catalog Service
// =============================================================================

// ProductsCreated - созданные продукты
var ProductsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "Total number of products created",
	},
)

// ProductsDeleted - удалённые продукты
var ProductsDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_products_deleted_total",
		Help: "Total number of products deleted",
	},
)

// PhotoUploads - загрузки файлов
var PhotoUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_photo_uploads_total",
		Help: "Total number of photo uploads",
	},
	[]string{"status"}, // success, failed
)

// PhotoUploadBytes - объём загруженных файлов
var PhotoUploadBytes = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_photo_upload_bytes_total",
		Help: "Total bytes of uploaded photos",
	},
)

// SweeperFilesRemoved - файлы, удалённые уборщиком осиротевших фото
var SweeperFilesRemoved = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_sweeper_files_removed_total",
		Help: "Total number of orphaned photo files removed by the sweeper",
	},
)

// =============================================================================
// Бизнес-метрики Client Service
// =============================================================================

// ClientUpstreamErrors - ошибки от Catalog Service по кодам
var ClientUpstreamErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "client_upstream_errors_total",
		Help: "Total number of non-2xx responses received from Catalog Service",
	},
	[]string{"status"},
)

// ClientErrorsTranslated - переписанные ошибки (404 -> структурированное тело)
var ClientErrorsTranslated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "client_errors_translated_total",
		Help: "Total number of downstream errors translated to client-facing bodies",
	},
	[]string{"status"},
)
