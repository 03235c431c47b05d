package metrics

import "time"

// Interface определяет интерфейс для системы метрик
type Interface interface {
	// RecordProviderCall записывает вызов операции провайдера
	RecordProviderCall(method string)

	// RecordResponseTime записывает время ответа провайдера
	RecordResponseTime(duration time.Duration)

	// RecordProviderError записывает ошибку провайдера по категории
	RecordProviderError(category string)

	// RecordCacheHit записывает попадание в кэш метаданных
	RecordCacheHit()

	// RecordCacheMiss записывает промах кэша метаданных
	RecordCacheMiss()

	// RecordProviderRestart записывает перезапуск процесса провайдера
	RecordProviderRestart()

	// SetProviderRunning устанавливает текущее состояние процесса провайдера
	SetProviderRunning(running bool)

	// RecordEviction записывает завершенную чистку кеша
	RecordEviction(evicted int)

	// SetNextEviction устанавливает время следующей чистки кеша
	SetNextEviction(next time.Time)

	// GetStats возвращает все метрики в виде map
	GetStats() map[string]interface{}
}
