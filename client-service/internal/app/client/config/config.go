package config

import (
	"os"
)

// Config содержит все настройки Client Service
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

// CatalogConfig - адрес Catalog Service, к которому проксируются запросы
type CatalogConfig struct {
	URL string // Базовый URL Catalog Service (без завершающего /)
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		Catalog: CatalogConfig{
			URL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
