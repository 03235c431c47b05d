// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Logging
	LogLevel string

	// App Data Directory
	AppDataDir string

	// Providers file
	ProvidersPath string

	// Cache
	CacheDSN         string
	CacheTTL         time.Duration
	CacheAutoCleanup bool
	EvictionSchedule string

	// Watcher
	WatchInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку если файл не найден
		_ = err
	}

	config := &Config{
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AppDataDir:       getEnv("FONOTEKA_DATA_DIR", "./data"),
		ProvidersPath:    getEnv("PROVIDERS_PATH", ""),
		CacheTTL:         getEnvDuration("CACHE_TTL", 24*time.Hour),
		CacheAutoCleanup: getEnvBool("CACHE_AUTO_CLEANUP", true),
		EvictionSchedule: getEnv("CACHE_EVICTION_SCHEDULE", "@hourly"),
		WatchInterval:    getEnvDuration("WATCH_INTERVAL", 30*time.Second),
	}
	config.CacheDSN = getEnv("CACHE_DSN", filepath.Join(config.AppDataDir, "cache.db"))

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be positive")
	}

	if c.EvictionSchedule == "" {
		return fmt.Errorf("CACHE_EVICTION_SCHEDULE is required")
	}

	if c.CacheDSN == "" {
		return fmt.Errorf("CACHE_DSN is required")
	}

	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
