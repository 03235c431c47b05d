// Package metrics реализует систему метрик музыкального сервиса.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics представляет систему метрик сервиса
type Metrics struct {
	mu sync.RWMutex

	// Вызовы провайдера
	totalCalls    int64
	callsByMethod map[string]int64

	// Жизненный цикл процесса плагина
	providerRunning  bool
	providerRestarts int64

	// Кеш метаданных
	cacheHits      int64
	cacheMisses    int64
	cacheHitRate   float64
	evictedEntries int64
	lastEviction   time.Time
	nextEviction   time.Time

	// Метрики производительности
	avgResponseTime  time.Duration
	totalRequests    int64
	errorCount       int64
	errorsByCategory map[string]int64

	uptime time.Time
	logger *zap.Logger
}

// NewMetrics создает новую систему метрик
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		callsByMethod:    make(map[string]int64),
		errorsByCategory: make(map[string]int64),
		uptime:           time.Now(),
		logger:           logger,
	}
}

// RecordProviderCall записывает вызов операции провайдера
func (m *Metrics) RecordProviderCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCalls++
	m.callsByMethod[method]++
}

// RecordResponseTime записывает время ответа провайдера
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	// Простое скользящее среднее
	if m.avgResponseTime == 0 {
		m.avgResponseTime = duration
	} else {
		m.avgResponseTime = (m.avgResponseTime + duration) / 2
	}
}

// RecordProviderError записывает ошибку провайдера по категории
func (m *Metrics) RecordProviderError(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorCount++
	m.errorsByCategory[category]++
}

// RecordCacheHit записывает попадание в кэш метаданных
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheHits++
	m.updateCacheHitRate()
}

// RecordCacheMiss записывает промах кэша метаданных
func (m *Metrics) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheMisses++
	m.updateCacheHitRate()
}

// RecordProviderRestart записывает перезапуск процесса провайдера
func (m *Metrics) RecordProviderRestart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providerRestarts++
}

// SetProviderRunning устанавливает текущее состояние процесса провайдера
func (m *Metrics) SetProviderRunning(running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providerRunning = running
}

// RecordEviction записывает завершенную чистку кеша
func (m *Metrics) RecordEviction(evicted int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictedEntries += int64(evicted)
	m.lastEviction = time.Now()
}

// SetNextEviction устанавливает время следующей чистки кеша
func (m *Metrics) SetNextEviction(next time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEviction = next
}

// GetStats возвращает все метрики в виде map
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	callsByMethod := make(map[string]int64, len(m.callsByMethod))
	for method, count := range m.callsByMethod {
		callsByMethod[method] = count
	}

	errorsByCategory := make(map[string]int64, len(m.errorsByCategory))
	for category, count := range m.errorsByCategory {
		errorsByCategory[category] = count
	}

	return map[string]interface{}{
		"provider": map[string]interface{}{
			"total_calls":     m.totalCalls,
			"calls_by_method": callsByMethod,
			"running":         m.providerRunning,
			"restarts":        m.providerRestarts,
		},
		"cache": map[string]interface{}{
			"cache_hits":      m.cacheHits,
			"cache_misses":    m.cacheMisses,
			"cache_hit_rate":  m.cacheHitRate,
			"evicted_entries": m.evictedEntries,
			"last_eviction":   m.formatTime(m.lastEviction),
			"next_eviction":   m.formatTime(m.nextEviction),
		},
		"performance": map[string]interface{}{
			"avg_response_time":  m.formatDuration(m.avgResponseTime),
			"total_requests":     m.totalRequests,
			"error_count":        m.errorCount,
			"error_rate":         m.calculateErrorRate(),
			"errors_by_category": errorsByCategory,
		},
		"system": map[string]interface{}{
			"uptime": m.formatDuration(time.Since(m.uptime)),
		},
	}
}

// updateCacheHitRate обновляет процент попаданий в кэш
func (m *Metrics) updateCacheHitRate() {
	total := m.cacheHits + m.cacheMisses
	if total > 0 {
		m.cacheHitRate = float64(m.cacheHits) / float64(total) * 100
	}
}

// calculateErrorRate вычисляет процент ошибок
func (m *Metrics) calculateErrorRate() float64 {
	if m.totalRequests > 0 {
		return float64(m.errorCount) / float64(m.totalRequests) * 100
	}
	return 0
}

// formatTime форматирует время в нужном формате или возвращает "Не установлено"
func (m *Metrics) formatTime(t time.Time) string {
	if t.IsZero() {
		return "Не установлено"
	}
	return t.Format("02.01.06 15:04")
}

// formatDuration форматирует duration с двумя знаками после запятой
func (m *Metrics) formatDuration(d time.Duration) string {
	// Конвертируем в секунды с двумя знаками после запятой
	seconds := d.Seconds()
	return fmt.Sprintf("%.2fs", seconds)
}
