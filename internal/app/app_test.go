package app

import (
	"context"
	"fonoteka/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	return &config.Config{
		LogLevel:         "info",
		AppDataDir:       dataDir,
		CacheDSN:         filepath.Join(dataDir, "cache.db"),
		CacheTTL:         time.Hour,
		CacheAutoCleanup: true,
		EvictionSchedule: "@hourly",
		WatchInterval:    time.Second,
	}
}

func TestAppRunsDiagnosticsOverDemoCatalog(t *testing.T) {
	// Пустой HOME гарантирует, что providers.toml не подхватится с машины
	t.Setenv("HOME", t.TempDir())

	application, err := NewAppWithFactory(testConfig(t), Options{Query: "neon"}, zap.NewNop())
	require.NoError(t, err)

	report, err := application.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, application.Stop())

	assert.Equal(t, "demo", report.ProviderID)
	assert.Equal(t, "Demo Provider", report.ProviderName)
	assert.Nil(t, report.PluginInfo, "built-in catalog has no plugin process")
	assert.True(t, report.Healthy)

	require.Len(t, report.Checks, 3)
	for _, check := range report.Checks {
		assert.True(t, check.Passed(), check.Name)
	}

	assert.True(t, report.Capabilities.SupportsPlaylists())

	providerStats, ok := report.Stats["provider"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEqual(t, int64(0), providerStats["total_calls"])

	assert.Equal(t, true, report.Janitor["running"], "report snapshots the janitor while it is scheduled")
}

func TestCreateProviderRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.toml")
	providersTOML := `
config_version = 1
default_provider = "melodee"

[providers.melodee]
kind = "melodee"

[providers.melodee.profiles.default]
display_name = "Melodee"
`
	require.NoError(t, os.WriteFile(path, []byte(providersTOML), 0o644))

	cfg := testConfig(t)
	cfg.ProvidersPath = path

	factory := NewComponentFactory(cfg, zap.NewNop())
	registry, err := factory.CreateRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "plugin"}, registry.Kinds())

	_, err = factory.CreateProvider(registry, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider kind: 'melodee'")
}

func TestParseEnvPairs(t *testing.T) {
	env, err := parseEnvPairs([]string{"MELODEE_TOKEN=secret", "MELODEE_REGION=eu"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MELODEE_TOKEN": "secret", "MELODEE_REGION": "eu"}, env)

	env, err = parseEnvPairs(nil)
	require.NoError(t, err)
	assert.Nil(t, env)

	_, err = parseEnvPairs([]string{"NOEQUALS"})
	require.Error(t, err)

	_, err = parseEnvPairs([]string{"=value"})
	require.Error(t, err)
}
