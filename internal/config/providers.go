// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// CurrentConfigVersion — поддерживаемая версия схемы providers.toml
const CurrentConfigVersion = 1

// ProvidersConfig представляет файл providers.toml: выбор провайдера по
// умолчанию и описания подключений
type ProvidersConfig struct {
	ConfigVersion   int                       `mapstructure:"config_version"`
	DefaultProvider string                    `mapstructure:"default_provider"`
	Profile         string                    `mapstructure:"profile"`
	Providers       map[string]ProviderConfig `mapstructure:"providers"`
}

// ProviderConfig представляет секцию providers.<id>
type ProviderConfig struct {
	// Kind — тип бэкенда (plugin, catalog, ...); пустое значение означает
	// совпадение с идентификатором провайдера
	Kind     string                     `mapstructure:"kind"`
	Profiles map[string]ProviderProfile `mapstructure:"profiles"`
}

// ProviderProfile представляет один профиль подключения провайдера
type ProviderProfile struct {
	DisplayName      string   `mapstructure:"display_name"`
	BaseURL          string   `mapstructure:"base_url"`
	User             string   `mapstructure:"user"`
	LibraryRoot      string   `mapstructure:"library_root"`
	PluginExecutable string   `mapstructure:"plugin_executable"`
	PluginArgs       []string `mapstructure:"plugin_args"`
	PluginWorkingDir string   `mapstructure:"plugin_working_dir"`
	// PluginEnv — переопределения окружения в формате KEY=VALUE.
	// Список, а не таблица: viper приводит ключи таблиц к нижнему регистру,
	// что ломало бы имена переменных окружения.
	PluginEnv []string `mapstructure:"plugin_env"`
}

// ProviderSelection представляет разрешенный выбор провайдера
type ProviderSelection struct {
	ProviderID string
	Kind       string
	ProfileID  string
	Profile    ProviderProfile
}

// DefaultProvidersConfig возвращает конфигурацию без настроенных провайдеров
func DefaultProvidersConfig() *ProvidersConfig {
	return &ProvidersConfig{
		ConfigVersion: CurrentConfigVersion,
		Providers:     make(map[string]ProviderConfig),
	}
}

// LoadProviders читает providers.toml. Пустой path включает поиск по
// стандартным местам; отсутствие файла при этом не ошибка — плеер работает
// со встроенным каталогом.
func LoadProviders(path string) (*ProvidersConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("providers")
		v.AddConfigPath("$HOME/.config/fonoteka/")
		v.AddConfigPath(".")
	}

	v.SetDefault("config_version", CurrentConfigVersion)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return DefaultProvidersConfig(), nil
		}
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var cfg ProvidersConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal providers config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет версию схемы и согласованность выбора провайдера
func (c *ProvidersConfig) Validate() error {
	if c.ConfigVersion != CurrentConfigVersion {
		return fmt.Errorf("unsupported config_version %d, expected %d", c.ConfigVersion, CurrentConfigVersion)
	}

	if c.DefaultProvider == "" {
		if c.Profile != "" {
			return errors.New("provider selection is required (set default_provider or pass --provider)")
		}
		return nil
	}

	providerCfg, exists := c.Providers[c.DefaultProvider]
	if !exists {
		if len(c.Providers) == 0 {
			return errors.New("no providers configured; set default_provider and providers.<id> blocks")
		}
		return fmt.Errorf("default_provider '%s' not found in providers config", c.DefaultProvider)
	}

	if c.Profile != "" {
		if _, ok := providerCfg.Profiles[c.Profile]; !ok {
			return fmt.Errorf("profile '%s' not found under provider '%s'", c.Profile, c.DefaultProvider)
		}
	}

	return nil
}

// ResolveSelection разрешает выбор провайдера: аргументы командной строки
// имеют приоритет над значениями из файла
func (c *ProvidersConfig) ResolveSelection(cliProvider, cliProfile string) (*ProviderSelection, error) {
	providerID := cliProvider
	if providerID == "" {
		providerID = c.DefaultProvider
	}
	if providerID == "" {
		return nil, errors.New("provider selection is required (set default_provider or pass --provider)")
	}

	providerCfg, exists := c.Providers[providerID]
	if !exists {
		if len(c.Providers) == 0 {
			return nil, errors.New("no providers configured; set default_provider and providers.<id> blocks")
		}
		return nil, fmt.Errorf("provider '%s' not found in providers config", providerID)
	}

	profileID := cliProfile
	if profileID == "" {
		profileID = c.Profile
	}

	var profile ProviderProfile
	if profileID != "" {
		var ok bool
		profile, ok = providerCfg.Profiles[profileID]
		if !ok {
			return nil, fmt.Errorf("profile '%s' not found under provider '%s'", profileID, providerID)
		}
	}

	kind := providerCfg.Kind
	if kind == "" {
		kind = providerID
	}

	return &ProviderSelection{
		ProviderID: providerID,
		Kind:       kind,
		ProfileID:  profileID,
		Profile:    profile,
	}, nil
}
