package service

import (
	"context"
	"fonoteka/internal/infrastructure/metrics"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReporter имитирует процесс провайдера с переключаемым состоянием
type fakeReporter struct {
	mu      sync.Mutex
	running bool
}

func (r *fakeReporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *fakeReporter) SetRunning(running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = running
}

func providerRunning(collector *metrics.Metrics) bool {
	stats, ok := collector.GetStats()["provider"].(map[string]interface{})
	if !ok {
		return false
	}
	running, ok := stats["running"].(bool)
	return ok && running
}

func TestWatcher_TracksProcessTransitions(t *testing.T) {
	reporter := &fakeReporter{running: true}
	collector := metrics.NewMetrics(zap.NewNop())
	watcher := NewWatcher(reporter, 5*time.Millisecond, collector, zap.NewNop())

	done := make(chan struct{})
	go func() {
		watcher.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return providerRunning(collector)
	}, 2*time.Second, 5*time.Millisecond, "initial state must be reported")

	reporter.SetRunning(false)
	assert.Eventually(t, func() bool {
		return !providerRunning(collector)
	}, 2*time.Second, 5*time.Millisecond, "crash must be noticed")

	reporter.SetRunning(true)
	assert.Eventually(t, func() bool {
		return providerRunning(collector)
	}, 2*time.Second, 5*time.Millisecond, "recovery must be noticed")

	watcher.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_StopsOnContextCancellation(t *testing.T) {
	reporter := &fakeReporter{running: true}
	collector := metrics.NewMetrics(zap.NewNop())
	watcher := NewWatcher(reporter, time.Minute, collector, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}

	// Начальное состояние фиксируется сразу при запуске, до первого тика
	require.True(t, providerRunning(collector))
}
