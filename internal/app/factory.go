// Package app содержит фабрику компонентов приложения.
package app

import (
	"fmt"
	"fonoteka/internal/config"
	"fonoteka/internal/domain/catalog"
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/gateway/plugin"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/service"
	"fonoteka/internal/storage"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Options задают выбор провайдера из командной строки
type Options struct {
	// Provider — идентификатор провайдера; пустой берет default_provider
	Provider string
	// Profile — имя профиля внутри блока провайдера
	Profile string
	// Query — поисковый запрос для пробы провайдера
	Query string
}

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateAppDataDirectory создает директорию данных приложения
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateStore открывает локальный кеш метаданных
func (f *ComponentFactory) CreateStore() (*storage.Store, error) {
	if f.config.CacheDSN == "" {
		return nil, fmt.Errorf("cache DSN is required")
	}

	store, err := storage.NewStore(f.config.CacheDSN, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata cache: %w", err)
	}

	f.logger.Info("Metadata cache opened successfully")
	return store, nil
}

// CreateRegistry создает реестр провайдеров со встроенными типами.
// Тип plugin покрывает внешние процессы; тип demo отдает встроенный каталог.
func (f *ComponentFactory) CreateRegistry() (*provider.Registry, error) {
	registry := provider.NewRegistry(f.logger)

	if err := registry.Register("plugin", plugin.Factory()); err != nil {
		return nil, fmt.Errorf("failed to register plugin kind: %w", err)
	}
	if err := registry.Register("demo", demoFactory()); err != nil {
		return nil, fmt.Errorf("failed to register demo kind: %w", err)
	}

	f.logger.Info("Provider registry ready", zap.Strings("kinds", registry.Kinds()))
	return registry, nil
}

// demoFactory строит встроенный каталог; параметры профиля ему не нужны
func demoFactory() provider.Factory {
	return func(profile provider.Profile, logger *zap.Logger) (provider.Provider, error) {
		return catalog.DemoLibrary(), nil
	}
}

// CreateProvider загружает конфигурацию провайдеров и строит выбранный.
// Без настроенных провайдеров работает встроенный демо-каталог: диагностику
// можно запустить до того, как появится providers.toml.
func (f *ComponentFactory) CreateProvider(registry *provider.Registry, cliProvider, cliProfile string) (provider.Provider, error) {
	providersCfg, err := config.LoadProviders(f.config.ProvidersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers config: %w", err)
	}

	if len(providersCfg.Providers) == 0 && cliProvider == "" {
		f.logger.Info("No providers configured, using built-in demo catalog")
		return catalog.DemoLibrary(), nil
	}

	selection, err := providersCfg.ResolveSelection(cliProvider, cliProfile)
	if err != nil {
		return nil, err
	}

	profile, err := buildProfile(selection)
	if err != nil {
		return nil, err
	}

	return registry.Build(selection.Kind, profile)
}

// CreateMetrics создает сборщик метрик
func (f *ComponentFactory) CreateMetrics() *metrics.Metrics {
	return metrics.NewMetrics(f.logger)
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(p provider.Provider, store *storage.Store, collector *metrics.Metrics) (*service.Services, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	// Наблюдатель имеет смысл только для провайдеров с внешним процессом
	var reporter service.RunningReporter
	if r, ok := p.(service.RunningReporter); ok {
		reporter = r
	}

	services := service.NewServices(p, reporter, store, f.config, collector, f.logger)
	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateApp создает полный экземпляр приложения со всеми зависимостями
func (f *ComponentFactory) CreateApp(opts Options) (*App, error) {
	// Создаем директорию данных приложения
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, err
	}

	// Открываем кеш метаданных
	store, err := f.CreateStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	// Создаем реестр и строим выбранного провайдера
	registry, err := f.CreateRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	p, err := f.CreateProvider(registry, opts.Provider, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Создаем метрики и сервисы
	collector := f.CreateMetrics()

	services, err := f.CreateServices(p, store, collector)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	// Создаем приложение
	application, err := NewApp(f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	// Устанавливаем компоненты в приложение
	application.store = store
	application.provider = p
	application.services = services
	application.metrics = collector
	application.query = opts.Query

	f.logger.Info("Application created successfully with all dependencies")
	return application, nil
}

// buildProfile переводит профиль файла конфигурации в профиль реестра
func buildProfile(selection *config.ProviderSelection) (provider.Profile, error) {
	env, err := parseEnvPairs(selection.Profile.PluginEnv)
	if err != nil {
		return provider.Profile{}, fmt.Errorf("invalid plugin_env for provider '%s': %w", selection.ProviderID, err)
	}

	return provider.Profile{
		ProviderID:       selection.ProviderID,
		DisplayName:      selection.Profile.DisplayName,
		BaseURL:          selection.Profile.BaseURL,
		User:             selection.Profile.User,
		LibraryRoot:      selection.Profile.LibraryRoot,
		PluginExecutable: selection.Profile.PluginExecutable,
		PluginArgs:       selection.Profile.PluginArgs,
		PluginWorkingDir: selection.Profile.PluginWorkingDir,
		PluginEnv:        env,
	}, nil
}

// parseEnvPairs разбирает список KEY=VALUE в карту окружения
func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got '%s'", pair)
		}
		env[key] = value
	}
	return env, nil
}
