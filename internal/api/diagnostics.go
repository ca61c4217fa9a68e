package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/battery-monitor-core/internal/monitor"
	"github.com/nerrad567/battery-monitor-core/internal/settings"
)

// Diagnostics is the support-bundle payload: everything needed to
// understand what the monitor currently believes, in one response.
type Diagnostics struct {
	Timestamp     string             `json:"timestamp"`
	Version       string             `json:"version"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	Runtime       RuntimeMetrics     `json:"runtime"`
	Upstream      UpstreamMetrics    `json:"upstream"`
	MQTT          MQTTMetrics        `json:"mqtt"`
	Database      *DatabaseMetrics   `json:"database,omitempty"`
	Settings      *settings.Settings `json:"settings,omitempty"`
	Snapshot      *SnapshotSummary   `json:"snapshot,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// UpstreamMetrics reports the Home Assistant bridge connection state.
type UpstreamMetrics struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// SnapshotSummary is the snapshot reduced to counts for diagnostics.
type SnapshotSummary struct {
	Status             string `json:"status"`
	BelowThreshold     int    `json:"below_threshold"`
	AboveThreshold     int    `json:"above_threshold"`
	WithoutBatteryInfo int    `json:"without_battery_info"`
	Excluded           int    `json:"excluded"`
	TotalMonitored     int    `json:"total_monitored"`
	Threshold          int    `json:"threshold"`
	Degraded           bool   `json:"degraded"`
}

// handleDiagnostics returns the full diagnostics payload.
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	diag := Diagnostics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
	}

	if s.upstream != nil {
		diag.Upstream = UpstreamMetrics{
			Configured: true,
			Connected:  s.upstream.IsConnected(),
		}
	}

	if s.mqtt != nil {
		diag.MQTT = MQTTMetrics{
			Configured: true,
			Connected:  s.mqtt.IsConnected(),
		}
	}

	if s.db != nil {
		dbStats := s.db.Stats()
		diag.Database = &DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
	}

	// Settings failures degrade the payload rather than failing it; the
	// whole point of this endpoint is to work when things are broken.
	if current, err := s.settings.Get(r.Context()); err == nil {
		diag.Settings = current
	} else {
		s.logger.Warn("diagnostics: settings unavailable", "error", err)
	}

	if snap := s.monitor.Snapshot(); snap != nil {
		diag.Snapshot = summariseSnapshot(snap)
	}

	writeJSON(w, http.StatusOK, diag)
}

// summariseSnapshot reduces a snapshot to its counts.
func summariseSnapshot(snap *monitor.Snapshot) *SnapshotSummary {
	return &SnapshotSummary{
		Status:             snap.Status,
		BelowThreshold:     len(snap.DevicesBelowThreshold),
		AboveThreshold:     len(snap.DevicesAboveThreshold),
		WithoutBatteryInfo: len(snap.DevicesWithoutBatteryInfo),
		Excluded:           len(snap.ExcludedDevices),
		TotalMonitored:     snap.TotalMonitoredDevices,
		Threshold:          snap.Threshold,
		Degraded:           snap.Degraded,
	}
}
