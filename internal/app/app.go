// Package app содержит основную логику приложения.
package app

import (
	"context"
	"fmt"
	"fonoteka/internal/config"
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/domain/provider/providertest"
	"fonoteka/internal/gateway/plugin"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/model"
	"fonoteka/internal/protocol"
	"fonoteka/internal/service"
	"fonoteka/internal/storage"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// App представляет приложение диагностики провайдеров
type App struct {
	config   *config.Config
	logger   *zap.Logger
	store    *storage.Store
	provider provider.Provider
	services *service.Services
	metrics  *metrics.Metrics
	query    string
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// Report содержит итоги диагностики провайдера
type Report struct {
	ProviderID   string
	ProviderName string
	// PluginInfo заполнен только для провайдеров за внешним процессом
	PluginInfo   *protocol.Info
	Capabilities provider.Capabilities
	Checks       []providertest.CheckResult
	Healthy      bool
	Stats        map[string]interface{}
	Janitor      map[string]interface{}
}

// NewApp создает новый экземпляр приложения
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Создаем контекст для управления жизненным циклом
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	logger.Info("Application structure created successfully")
	return app, nil
}

// NewAppWithFactory создает приложение через фабрику компонентов
func NewAppWithFactory(cfg *config.Config, opts Options, logger *zap.Logger) (*App, error) {
	factory := NewComponentFactory(cfg, logger)
	return factory.CreateApp(opts)
}

// Run выполняет последовательность диагностики и возвращает отчет:
// стартовая чистка кеша, запуск фоновых сервисов, прогон проверок контракта,
// сбор метрик. Остановкой занимается Stop.
func (a *App) Run(ctx context.Context) (*Report, error) {
	a.logger.Info("Starting provider diagnostics",
		zap.String("provider_id", a.provider.ID()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Стартовая чистка кеша
	if a.config.CacheAutoCleanup {
		evicted := a.services.Janitor.Sweep()
		a.logger.Info("Startup cache sweep finished", zap.Int("evicted", evicted))
	}

	// Запускаем чистку по расписанию
	if err := a.services.Janitor.Start(); err != nil {
		a.logger.Error("Failed to start janitor", zap.Error(err))
	}

	// Запускаем наблюдатель процесса плагина
	if a.services.Watcher != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.services.Watcher.Start(a.ctx)
		}()
		a.logger.Info("Plugin process watcher started successfully")
	}

	expectations, err := a.deriveExpectations()
	if err != nil {
		return nil, err
	}

	checks := providertest.Checks(a.services.Music, expectations)

	report := &Report{
		ProviderID:   a.services.Music.ID(),
		ProviderName: a.services.Music.Name(),
		Capabilities: a.services.Music.Capabilities(),
		Checks:       checks,
		Healthy:      true,
		Stats:        a.metrics.GetStats(),
		Janitor:      a.services.Janitor.GetStatus(),
	}
	for _, check := range checks {
		if !check.Passed() {
			report.Healthy = false
		}
	}

	if backend, ok := a.provider.(*plugin.Backend); ok {
		if info, err := backend.Info(); err == nil {
			report.PluginInfo = &info
		}
	}

	a.logger.Info("Provider diagnostics finished",
		zap.String("provider_id", report.ProviderID),
		zap.Bool("healthy", report.Healthy))

	return report, nil
}

// Stop gracefully останавливает приложение
func (a *App) Stop() error {
	a.logger.Info("Stopping application gracefully")

	// Останавливаем чистку кеша
	if a.services != nil && a.services.Janitor != nil {
		a.services.Janitor.Stop()
	}

	// Останавливаем наблюдатель процесса
	if a.services != nil && a.services.Watcher != nil {
		a.services.Watcher.Stop()
	}

	// Отменяем контекст для остановки всех горутин
	if a.cancel != nil {
		a.cancel()
	}

	// Ждем завершения всех горутин с таймаутом
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.wg.Wait()
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	select {
	case <-done:
		a.logger.Info("All goroutines stopped successfully")
	case <-shutdownCtx.Done():
		a.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	// Завершаем процесс провайдера
	if closer, ok := a.provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("Failed to stop provider", zap.Error(err))
		}
	}

	// Закрываем кеш метаданных
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close metadata cache", zap.Error(err))
		}
	}

	a.logger.Info("Application stopped successfully")
	return nil
}

// deriveExpectations строит ожидания контракта из живых ответов провайдера.
// Диагностика работает с любым провайдером, эталонных фикстур у нее нет:
// первый найденный трек становится ожидаемым, его же проверяет поток.
func (a *App) deriveExpectations() (providertest.Expectations, error) {
	music := a.services.Music

	page, err := music.SearchTracks(a.query, provider.TrackSearchFilters{}, model.FirstPage(10))
	if err != nil {
		return providertest.Expectations{}, fmt.Errorf("probe search failed: %w", err)
	}
	if page.Len() == 0 {
		return providertest.Expectations{}, fmt.Errorf("probe search returned no tracks for query '%s'", a.query)
	}
	first := page.Items[0]

	expectations := providertest.Expectations{
		ProviderID: music.ID(),
		Search: providertest.SearchExpectation{
			Query:                a.query,
			ExpectedFirstTrackID: first.ID,
		},
		StreamTrackID: first.ID,
	}

	if music.Capabilities().SupportsPlaylists() {
		playlist := &providertest.PlaylistExpectation{}
		if playlists, err := music.ListPlaylists(model.FirstPage(1)); err == nil && playlists.Len() > 0 {
			playlist.PlaylistID = playlists.Items[0].ID
		}
		expectations.Playlist = playlist
	}

	return expectations, nil
}
