package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки приложения Catalog Service
// Включает конфигурацию для HTTP сервера, MongoDB, Redis, Kafka и загрузок
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Uploads UploadsConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// MongoDBConfig - настройки подключения к MongoDB
// Используется для хранения товаров и категорий
type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

// RedisConfig - настройки подключения к Redis для кеширования
// Используется для кеширования списка товаров
type RedisConfig struct {
	Host     string // Хост Redis
	Port     string // Порт Redis
	Password string // Пароль Redis (опционально)
	DB       int    // Номер БД Redis (0-15)
}

// KafkaConfig - настройки Kafka для отправки событий
// События отправляются при изменении товаров (создание/обновление/удаление)
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED
}

// UploadsConfig - настройки каталога для фотографий товаров
type UploadsConfig struct {
	Path          string        // Каталог на диске для загруженных файлов
	SweepSchedule string        // Cron-расписание уборки осиротевших файлов
	SweepGrace    time.Duration // Минимальный возраст файла для удаления
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	sweepGrace, err := time.ParseDuration(getEnv("UPLOADS_SWEEP_GRACE", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOADS_SWEEP_GRACE value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "catalog_service"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
		},
		Uploads: UploadsConfig{
			Path:          getEnv("UPLOADS_PATH", "./uploads"),
			SweepSchedule: getEnv("UPLOADS_SWEEP_SCHEDULE", "@every 30m"),
			SweepGrace:    sweepGrace,
		},
	}, nil
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
// Используется для гибкой конфигурации через environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
