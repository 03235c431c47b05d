package service

import (
	"fonoteka/internal/config"
	"fonoteka/internal/domain/catalog"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/storage"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServices(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	cfg := &config.Config{
		CacheTTL:         time.Hour,
		WatchInterval:    time.Second,
		EvictionSchedule: "@hourly",
	}
	collector := metrics.NewMetrics(zap.NewNop())

	t.Run("without process reporter", func(t *testing.T) {
		services := NewServices(catalog.DemoLibrary(), nil, store, cfg, collector, zap.NewNop())

		require.NotNil(t, services.Music)
		require.NotNil(t, services.Janitor)
		assert.Nil(t, services.Watcher, "in-process providers have nothing to watch")
		assert.Equal(t, "demo", services.Music.ID())
	})

	t.Run("with process reporter", func(t *testing.T) {
		reporter := &fakeReporter{running: true}
		services := NewServices(catalog.DemoLibrary(), reporter, store, cfg, collector, zap.NewNop())

		require.NotNil(t, services.Watcher)
		require.NotNil(t, services.Music)
		require.NotNil(t, services.Janitor)
	})
}
