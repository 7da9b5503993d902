package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/texforge/resumed/internal/history"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	Render        RenderMetrics    `json:"render"`
	History       *history.Stats   `json:"history,omitempty"`
	MQTT          MQTTMetrics      `json:"mqtt"`
	Database      *DatabaseMetrics `json:"database,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// RenderMetrics reports render slot usage.
type RenderMetrics struct {
	InFlight    int64 `json:"in_flight"`
	Waiting     int64 `json:"waiting"`
	Concurrency int   `json:"concurrency"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Connected bool `json:"connected"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleMetrics returns runtime, render and backend statistics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Render: RenderMetrics{
			InFlight:    s.renderer.InFlight(),
			Waiting:     s.renderer.Waiting(),
			Concurrency: s.renderer.Concurrency(),
		},
		MQTT: MQTTMetrics{Connected: s.mqtt.IsConnected()},
	}

	if s.history != nil {
		stats, err := s.history.Stats(r.Context())
		if err != nil {
			s.logger.Warn("reading render stats failed", "error", err)
		} else {
			metrics.History = stats
		}
	}

	if s.db != nil {
		st := s.db.Stats()
		metrics.Database = &DatabaseMetrics{
			OpenConnections: st.OpenConnections,
			InUse:           st.InUse,
			Idle:            st.Idle,
			WaitCount:       st.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
