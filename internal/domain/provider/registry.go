// Package provider определяет контракт источника музыкальных метаданных.
//
// Группа: CONTRACT - Контракт провайдера
// Содержит: Registry, Factory, Profile
package provider

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Profile описывает настройки выбранного провайдера, уже разрешённые из
// файла конфигурации: идентификатор, человекочитаемое имя и параметры запуска
// для plugin-провайдеров.
type Profile struct {
	// ProviderID — идентификатор из секции providers файла конфигурации
	ProviderID string
	// DisplayName — человекочитаемое имя профиля
	DisplayName string
	// BaseURL — адрес удалённого каталога (для сетевых провайдеров)
	BaseURL string
	// User — имя пользователя удалённого каталога
	User string
	// LibraryRoot — корень локальной библиотеки (для файловых провайдеров)
	LibraryRoot string
	// PluginExecutable — путь к исполняемому файлу внешнего плагина
	PluginExecutable string
	// PluginArgs — аргументы запуска плагина
	PluginArgs []string
	// PluginWorkingDir — рабочий каталог плагина
	PluginWorkingDir string
	// PluginEnv — переопределения окружения плагина
	PluginEnv map[string]string
}

// Factory создает провайдера из профиля конфигурации
type Factory func(profile Profile, logger *zap.Logger) (Provider, error)

// Registry представляет реестр фабрик провайдеров по типу (kind).
// Плеер выбирает бэкенд на старте: локальный каталог, удалённый сервис или
// внешний процесс регистрируются здесь под своими типами.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    *zap.Logger
}

// NewRegistry создает новый реестр провайдеров
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register регистрирует фабрику провайдера под типом kind.
// Повторная регистрация типа — ошибка программирования, она возвращается явно.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("provider kind is required")
	}
	if factory == nil {
		return fmt.Errorf("provider factory for kind '%s' is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("provider kind '%s' is already registered", kind)
	}

	r.factories[kind] = factory
	r.logger.Debug("Provider factory registered", zap.String("kind", kind))

	return nil
}

// Kinds возвращает отсортированный список зарегистрированных типов
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	return kinds
}

// Build создает провайдера указанного типа из профиля
func (r *Registry) Build(kind string, profile Profile) (Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown provider kind: '%s'", kind)
	}

	p, err := factory(profile, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider '%s' (kind %s): %w", profile.ProviderID, kind, err)
	}

	r.logger.Info("Provider built successfully",
		zap.String("provider_id", profile.ProviderID),
		zap.String("kind", kind))

	return p, nil
}
