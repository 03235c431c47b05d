// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fonoteka/internal/infrastructure/metrics"
	"time"

	"go.uber.org/zap"
)

// RunningReporter сообщает, жив ли процесс провайдера
type RunningReporter interface {
	IsRunning() bool
}

// Watcher периодически опрашивает состояние процесса провайдера
type Watcher struct {
	reporter RunningReporter
	interval time.Duration
	metrics  metrics.Interface
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewWatcher создает новый наблюдатель процесса провайдера
func NewWatcher(reporter RunningReporter, interval time.Duration, metricsCollector metrics.Interface, logger *zap.Logger) *Watcher {
	return &Watcher{
		reporter: reporter,
		interval: interval,
		metrics:  metricsCollector,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает наблюдение за процессом провайдера
func (w *Watcher) Start(ctx context.Context) {
	w.logger.Info("Starting plugin process watcher",
		zap.Duration("interval", w.interval))

	running := w.reporter.IsRunning()
	w.metrics.SetProviderRunning(running)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Plugin process watcher stopped due to context cancellation")
			return
		case <-w.stopChan:
			w.logger.Info("Plugin process watcher stopped")
			return
		case <-ticker.C:
			current := w.reporter.IsRunning()
			if current != running {
				if current {
					w.logger.Info("Plugin process is running again")
				} else {
					w.logger.Warn("Plugin process stopped running")
				}
				running = current
				w.metrics.SetProviderRunning(current)
			}
		}
	}
}

// Stop останавливает наблюдатель
func (w *Watcher) Stop() {
	close(w.stopChan)
}
