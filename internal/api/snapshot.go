package api

import (
	"net/http"

	"github.com/nerrad567/battery-monitor-core/internal/monitor"
)

// SnapshotResponse wraps the engine snapshot with its display icon.
type SnapshotResponse struct {
	*monitor.Snapshot
	Icon string `json:"icon"`
}

// handleGetSnapshot returns the most recent evaluation result.
//
// Reads are served entirely from memory; this never touches Home
// Assistant or the database. Before the first evaluation completes
// there is nothing to serve and the endpoint returns 503.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()
	if snap == nil {
		writeUnavailable(w, "no evaluation has completed yet")
		return
	}

	writeJSON(w, http.StatusOK, SnapshotResponse{
		Snapshot: snap,
		Icon:     snap.Icon(),
	})
}

// handleLowBatteryText returns the below-threshold devices as a
// plain-text list, one "name (area) - level%" line per device.
func (s *Server) handleLowBatteryText(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()
	if snap == nil {
		writeUnavailable(w, "no evaluation has completed yet")
		return
	}

	writeText(w, http.StatusOK, snap.FormatLowBattery())
}

// handleWithoutBatteryInfoText returns the devices whose battery level
// is unreadable as a plain-text list, one "name (area)" line per device.
func (s *Server) handleWithoutBatteryInfoText(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()
	if snap == nil {
		writeUnavailable(w, "no evaluation has completed yet")
		return
	}

	writeText(w, http.StatusOK, snap.FormatWithoutBatteryInfo())
}

// handleRefresh runs a full re-evaluation synchronously and returns the
// resulting snapshot.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.monitor.Refresh(r.Context())
	if err != nil {
		// Refresh only fails on context cancellation.
		s.logger.Warn("refresh aborted", "error", err)
		writeInternalError(w, "refresh aborted")
		return
	}

	writeJSON(w, http.StatusOK, SnapshotResponse{
		Snapshot: snap,
		Icon:     snap.Icon(),
	})
}
