package metrics

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMetrics_InitialState(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	stats := metrics.GetStats()
	cache := stats["cache"].(map[string]interface{})

	if cache["last_eviction"] != "Не установлено" {
		t.Errorf("Expected 'Не установлено', got %v", cache["last_eviction"])
	}

	if cache["next_eviction"] != "Не установлено" {
		t.Errorf("Expected 'Не установлено', got %v", cache["next_eviction"])
	}

	provider := stats["provider"].(map[string]interface{})
	if provider["running"] != false {
		t.Errorf("Expected provider to start as not running, got %v", provider["running"])
	}
	if provider["total_calls"] != int64(0) {
		t.Errorf("Expected zero calls, got %v", provider["total_calls"])
	}
}

func TestMetrics_ProviderCalls(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	metrics.RecordProviderCall("SearchTracks")
	metrics.RecordProviderCall("SearchTracks")
	metrics.RecordProviderCall("GetTrack")
	metrics.RecordProviderRestart()
	metrics.SetProviderRunning(true)

	stats := metrics.GetStats()
	provider := stats["provider"].(map[string]interface{})

	if provider["total_calls"] != int64(3) {
		t.Errorf("Expected 3 total calls, got %v", provider["total_calls"])
	}

	calls := provider["calls_by_method"].(map[string]int64)
	if calls["SearchTracks"] != 2 {
		t.Errorf("Expected 2 SearchTracks calls, got %v", calls["SearchTracks"])
	}
	if calls["GetTrack"] != 1 {
		t.Errorf("Expected 1 GetTrack call, got %v", calls["GetTrack"])
	}

	if provider["restarts"] != int64(1) {
		t.Errorf("Expected 1 restart, got %v", provider["restarts"])
	}
	if provider["running"] != true {
		t.Errorf("Expected provider to be running, got %v", provider["running"])
	}
}

func TestMetrics_CacheHitRate(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	metrics.RecordCacheHit()
	metrics.RecordCacheHit()
	metrics.RecordCacheMiss()

	stats := metrics.GetStats()
	cache := stats["cache"].(map[string]interface{})

	if cache["cache_hits"] != int64(2) {
		t.Errorf("Expected 2 hits, got %v", cache["cache_hits"])
	}
	if cache["cache_misses"] != int64(1) {
		t.Errorf("Expected 1 miss, got %v", cache["cache_misses"])
	}

	expectedRate := float64(2) / float64(3) * 100
	if cache["cache_hit_rate"] != expectedRate {
		t.Errorf("Expected hit rate %v, got %v", expectedRate, cache["cache_hit_rate"])
	}
}

func TestMetrics_ErrorRate(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	metrics.RecordResponseTime(100 * time.Millisecond)
	metrics.RecordResponseTime(200 * time.Millisecond)
	metrics.RecordProviderError("not_found")
	metrics.RecordProviderError("network")
	metrics.RecordProviderError("network")

	stats := metrics.GetStats()
	performance := stats["performance"].(map[string]interface{})

	if performance["total_requests"] != int64(2) {
		t.Errorf("Expected 2 requests, got %v", performance["total_requests"])
	}
	if performance["error_count"] != int64(3) {
		t.Errorf("Expected 3 errors, got %v", performance["error_count"])
	}

	byCategory := performance["errors_by_category"].(map[string]int64)
	if byCategory["network"] != 2 {
		t.Errorf("Expected 2 network errors, got %v", byCategory["network"])
	}
	if byCategory["not_found"] != 1 {
		t.Errorf("Expected 1 not_found error, got %v", byCategory["not_found"])
	}

	expectedRate := float64(3) / float64(2) * 100
	if performance["error_rate"] != expectedRate {
		t.Errorf("Expected error rate %v, got %v", expectedRate, performance["error_rate"])
	}
}

func TestMetrics_EvictionUpdates(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	metrics.RecordEviction(5)
	metrics.RecordEviction(2)

	stats := metrics.GetStats()
	cache := stats["cache"].(map[string]interface{})

	if cache["evicted_entries"] != int64(7) {
		t.Errorf("Expected 7 evicted entries, got %v", cache["evicted_entries"])
	}
	if cache["last_eviction"] == "Не установлено" {
		t.Error("Expected time format, got 'Не установлено'")
	}

	future := time.Now().Add(time.Hour)
	metrics.SetNextEviction(future)

	stats = metrics.GetStats()
	cache = stats["cache"].(map[string]interface{})

	expectedFormat := future.Format("02.01.06 15:04")
	if cache["next_eviction"] != expectedFormat {
		t.Errorf("Expected %s, got %v", expectedFormat, cache["next_eviction"])
	}
}

func TestMetrics_FormatTime(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	// Тест с нулевым временем
	result := metrics.formatTime(time.Time{})
	if result != "Не установлено" {
		t.Errorf("Expected 'Не установлено', got %s", result)
	}

	// Тест с реальным временем
	testTime := time.Date(2024, 12, 25, 15, 30, 0, 0, time.UTC)
	result = metrics.formatTime(testTime)
	expected := "25.12.24 15:30"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}

func TestMetrics_FormatDuration(t *testing.T) {
	logger := zap.NewNop()
	metrics := NewMetrics(logger)

	duration := 115556550 * time.Nanosecond // 115.55655ms
	result := metrics.formatDuration(duration)
	expected := "0.12s"
	if result != expected {
		t.Errorf("Expected %s, got %s", expected, result)
	}
}
