// Package service содержит бизнес-логику приложения.
package service

import (
	"fonoteka/internal/config"
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/storage"

	"go.uber.org/zap"
)

// Services содержит все сервисы приложения
type Services struct {
	Music   *MusicService
	Watcher *Watcher
	Janitor *Janitor
}

// NewServices создает все сервисы
func NewServices(p provider.Provider, reporter RunningReporter, store *storage.Store, cfg *config.Config, metricsCollector metrics.Interface, logger *zap.Logger) *Services {
	musicService := NewMusicService(p, store.GetDB(), cfg.CacheTTL, metricsCollector, logger)
	janitor := NewJanitor(store.GetDB(), cfg.CacheTTL, cfg.EvictionSchedule, metricsCollector, logger)

	// Создаем наблюдатель только если у провайдера есть внешний процесс
	var watcher *Watcher
	if reporter != nil {
		watcher = NewWatcher(reporter, cfg.WatchInterval, metricsCollector, logger)
	} else {
		logger.Warn("Provider has no external process, watcher will not be created")
	}

	return &Services{
		Music:   musicService,
		Watcher: watcher,
		Janitor: janitor,
	}
}
